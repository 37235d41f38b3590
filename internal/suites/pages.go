package suites

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/elliotchance/orderedmap/v2"
)

// LighthousePage is one page checked by a lighthouse suite. PageModule is the
// root-file identifier of the page's owning module.
type LighthousePage struct {
	Name       string
	URL        string
	PageModule string
}

// PagesConfig maps lighthouse shard IDs to their pages. A shard corresponds
// 1:1 to a lighthouse suite name. Shard and page order follow the JSON
// document, since pages_to_run output order is the declaration order.
type PagesConfig struct {
	shards *orderedmap.OrderedMap[string, []LighthousePage]
}

// LoadPagesConfig reads the lighthouse pages configuration file:
// {"shards": {shardID: {pageName: {"url": ..., "page_module": ...}}}}
func LoadPagesConfig(path string) (*PagesConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open lighthouse pages config: %w", err)
	}
	defer f.Close()

	cfg, err := decodePagesConfig(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse lighthouse pages config %s: %w", path, err)
	}
	return cfg, nil
}

// decodePagesConfig walks the token stream by hand because encoding/json maps
// discard key order, and shard/page order is part of the contract.
func decodePagesConfig(r io.Reader) (*PagesConfig, error) {
	dec := json.NewDecoder(r)

	if err := expectDelim(dec, '{'); err != nil {
		return nil, err
	}

	shards := orderedmap.NewOrderedMap[string, []LighthousePage]()
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("expected object key, got %v", keyTok)
		}

		if key != "shards" {
			// Unknown top-level keys are skipped wholesale.
			var raw json.RawMessage
			if err := dec.Decode(&raw); err != nil {
				return nil, err
			}
			continue
		}

		if err := expectDelim(dec, '{'); err != nil {
			return nil, err
		}
		for dec.More() {
			shardTok, err := dec.Token()
			if err != nil {
				return nil, err
			}
			shardID, ok := shardTok.(string)
			if !ok {
				return nil, fmt.Errorf("expected shard ID, got %v", shardTok)
			}

			pages, err := decodeShard(dec)
			if err != nil {
				return nil, fmt.Errorf("shard %q: %w", shardID, err)
			}
			if _, exists := shards.Get(shardID); exists {
				return nil, fmt.Errorf("shard %q declared twice", shardID)
			}
			shards.Set(shardID, pages)
		}
		if err := expectDelim(dec, '}'); err != nil {
			return nil, err
		}
	}
	if err := expectDelim(dec, '}'); err != nil {
		return nil, err
	}

	return &PagesConfig{shards: shards}, nil
}

// decodeShard reads one shard object: {pageName: {"url", "page_module"}}.
func decodeShard(dec *json.Decoder) ([]LighthousePage, error) {
	if err := expectDelim(dec, '{'); err != nil {
		return nil, err
	}

	var pages []LighthousePage
	for dec.More() {
		nameTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		name, ok := nameTok.(string)
		if !ok {
			return nil, fmt.Errorf("expected page name, got %v", nameTok)
		}

		var entry struct {
			URL        string `json:"url"`
			PageModule string `json:"page_module"`
		}
		if err := dec.Decode(&entry); err != nil {
			return nil, fmt.Errorf("page %q: %w", name, err)
		}
		pages = append(pages, LighthousePage{
			Name:       name,
			URL:        entry.URL,
			PageModule: entry.PageModule,
		})
	}
	if err := expectDelim(dec, '}'); err != nil {
		return nil, err
	}

	return pages, nil
}

// expectDelim consumes the next token and checks it is the given delimiter.
func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != want {
		return fmt.Errorf("expected %q, got %v", want, tok)
	}
	return nil
}

// ShardPages returns the pages of a shard in declaration order. The second
// return reports whether the shard exists. The slice must not be modified.
func (p *PagesConfig) ShardPages(shardID string) ([]LighthousePage, bool) {
	return p.shards.Get(shardID)
}

// ShardIDs returns all shard IDs in declaration order.
func (p *PagesConfig) ShardIDs() []string {
	return p.shards.Keys()
}

// PageNames returns the page names of a shard in declaration order, or nil
// if the shard does not exist.
func (p *PagesConfig) PageNames(shardID string) []string {
	pages, ok := p.shards.Get(shardID)
	if !ok {
		return nil
	}
	names := make([]string, 0, len(pages))
	for _, page := range pages {
		names = append(names, page.Name)
	}
	return names
}
