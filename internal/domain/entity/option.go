package entity

// Option valor crudo de un campo de selección (id de catálogo o código).
// En JSON acepta el valor directo o el formato heredado {value,label}.
type Option string

// UnmarshalJSON reduce {value,label} al valor.
func (o *Option) UnmarshalJSON(b []byte) error {
	s, err := decodeOption(b)
	if err != nil {
		return err
	}
	*o = Option(s)
	return nil
}

// String devuelve el valor crudo.
func (o Option) String() string { return string(o) }

// Options convierte una lista de opciones en valores crudos, omitiendo vacíos.
func Options(opts []Option) []string {
	out := make([]string, 0, len(opts))
	for _, o := range opts {
		if o != "" {
			out = append(out, string(o))
		}
	}
	return out
}
