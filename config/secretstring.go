package config

// SecretStringValue replaces actual value whenever secret is printed or
// serialized.
const SecretStringValue = "<secret>"

// SecretString is used for credentials which must not end up in logs, debug
// reports or configuration dumps.
type SecretString string

// Value returns actual secret.
func (s SecretString) Value() string {
	return string(s)
}

func (s SecretString) String() string {
	if len(s) == 0 {
		return ""
	}
	return SecretStringValue
}

func (s SecretString) GoString() string {
	return `"` + s.String() + `"`
}

func (s SecretString) MarshalJSON() ([]byte, error) {
	if len(s) == 0 {
		return []byte("null"), nil
	}
	return []byte(`"` + SecretStringValue + `"`), nil
}

func (s SecretString) MarshalYAML() (any, error) {
	if len(s) == 0 {
		return nil, nil
	}
	return SecretStringValue, nil
}
