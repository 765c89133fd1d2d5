package chess

import "fmt"

func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Color) UnmarshalText(b []byte) error {
	v, ok := ParseColor(string(b))
	if !ok {
		return fmt.Errorf("invalid color %q", b)
	}
	*c = v
	return nil
}

func (k PieceKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *PieceKind) UnmarshalText(b []byte) error {
	v, ok := ParsePieceKind(string(b))
	if !ok {
		return fmt.Errorf("invalid piece kind %q", b)
	}
	*k = v
	return nil
}
