package jsonx

import (
	"io"

	jsoniter "github.com/json-iterator/go"
)

var jsonx = jsoniter.ConfigCompatibleWithStandardLibrary

func Marshal(v interface{}) ([]byte, error) {
	return jsonx.Marshal(v)
}

// MustMarshal is for values known to serialize cleanly, such as the canonical
// record batch fed into block hashing. Struct fields encode in declaration
// order, so the output is bit-stable across processes.
func MustMarshal(v interface{}) []byte {
	data, err := jsonx.Marshal(v)
	if err != nil {
		panic(err)
	}
	return data
}

func Unmarshal(data []byte, v interface{}) error {
	return jsonx.Unmarshal(data, v)
}

func NewDecoder(r io.Reader) *jsoniter.Decoder {
	return jsonx.NewDecoder(r)
}

func NewEncoder(w io.Writer) *jsoniter.Encoder {
	return jsonx.NewEncoder(w)
}
