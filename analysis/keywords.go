package analysis

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// KeywordEntry associates a name with its identifiers, either plain
// keywords or filename suffixes such as ".py"
type KeywordEntry struct {
	Name        string
	Identifiers []string
}

// KeywordTable keeps the entries in the order they appear in the resource
// file. Language detection is first-match-wins, so the order is part of
// the contract and a plain map cannot hold it.
type KeywordTable []KeywordEntry

// LoadKeywordTable reads a keyword resource from disk
func LoadKeywordTable(path string) (KeywordTable, error) {
	file, err := os.Open(path)

	if err != nil {
		return nil, err
	}

	defer file.Close()
	return ParseKeywordTable(file)
}

// ParseKeywordTable decodes a JSON object mapping names to identifier
// lists. encoding/json maps discard key order, so the object is walked
// token by token instead.
func ParseKeywordTable(r io.Reader) (KeywordTable, error) {
	decoder := json.NewDecoder(r)

	token, err := decoder.Token()

	if err != nil {
		return nil, err
	}

	if delim, ok := token.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("keyword table: expected a top level object")
	}

	var table KeywordTable

	for decoder.More() {
		token, err := decoder.Token()

		if err != nil {
			return nil, err
		}

		name, ok := token.(string)

		if !ok {
			return nil, fmt.Errorf("keyword table: expected an entry name")
		}

		var identifiers []string
		if err := decoder.Decode(&identifiers); err != nil {
			return nil, err
		}

		table = append(table, KeywordEntry{Name: name, Identifiers: identifiers})
	}

	// consume the closing brace
	if _, err := decoder.Token(); err != nil {
		return nil, err
	}

	return table, nil
}
