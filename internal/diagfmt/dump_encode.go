package diagfmt

import (
	"encoding/json"
	"io"

	"github.com/vmihailenco/msgpack/v5"
)

// DumpJSON writes the snapshot as indented JSON.
func DumpJSON(w io.Writer, dump *SymtabDump) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(dump)
}

// DumpMsgpack writes the snapshot as msgpack using the json field names.
func DumpMsgpack(w io.Writer, dump *SymtabDump) error {
	enc := msgpack.NewEncoder(w)
	enc.SetCustomStructTag("json")
	return enc.Encode(dump)
}

// ReadMsgpack decodes a snapshot written by DumpMsgpack.
func ReadMsgpack(r io.Reader) (*SymtabDump, error) {
	dec := msgpack.NewDecoder(r)
	dec.SetCustomStructTag("json")
	var dump SymtabDump
	if err := dec.Decode(&dump); err != nil {
		return nil, err
	}
	return &dump, nil
}
