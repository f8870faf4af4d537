package sexp

// Unmarshal parses data and decodes the result into v.
func Unmarshal(data []byte, v interface{}) error {
	n, err := ParseBytes(data)
	if err != nil {
		return err
	}
	return Decode(n, v)
}

// Marshal encodes v and renders it compactly.
func Marshal(v interface{}) ([]byte, error) {
	return MarshalStyle(v, Compact{})
}

// MarshalStyle encodes v and renders it using style.
func MarshalStyle(v interface{}, style Style) ([]byte, error) {
	n, err := Encode(v)
	if err != nil {
		return nil, err
	}
	return []byte(Format(n, style)), nil
}
