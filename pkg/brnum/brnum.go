// Package brnum convierte números con formato pt-BR (coma decimal, punto de miles)
// hacia decimal.Decimal y los formatea de vuelta para presentación.
package brnum

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// ErrEmpty indica que el texto no contiene número.
var ErrEmpty = errors.New("brnum: valor vacío")

var printer = message.NewPrinter(language.BrazilianPortuguese)

// Parse convierte "1.234,56", "1234,56", "R$ 10,00", "1.500" o "1234.56" a decimal.
// La coma es el separador decimal y el punto el de miles. Sin coma, un único
// punto seguido de uno o dos dígitos se acepta como punto decimal.
func Parse(s string) (decimal.Decimal, error) {
	clean, err := normalize(s)
	if err != nil {
		return decimal.Zero, err
	}
	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero, fmt.Errorf("brnum: %q no es un número", s)
	}
	return d, nil
}

// ParseOptional devuelve un NullDecimal inválido para texto vacío.
func ParseOptional(s string) (decimal.NullDecimal, error) {
	d, err := Parse(s)
	if errors.Is(err, ErrEmpty) {
		return decimal.NullDecimal{}, nil
	}
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	return decimal.NewNullDecimal(d), nil
}

// Valid indica si el texto es un número pt-BR válido (vacío no es válido).
func Valid(s string) bool {
	_, err := Parse(s)
	return err == nil
}

func normalize(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "R$")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "\u00a0", "")
	if s == "" {
		return "", ErrEmpty
	}
	invalid := fmt.Errorf("brnum: %q no es un número", raw)

	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac, hasComma := strings.Cut(s, ",")
	if hasComma {
		if strings.Contains(frac, ",") || strings.Contains(frac, ".") {
			return "", invalid
		}
	} else if i := strings.LastIndex(s, "."); i >= 0 && strings.Count(s, ".") == 1 && len(s)-i-1 <= 2 {
		intPart, frac, hasComma = s[:i], s[i+1:], true
	}
	if strings.Contains(intPart, ".") {
		grouped, ok := ungroup(intPart)
		if !ok {
			return "", invalid
		}
		intPart = grouped
	}
	if hasComma {
		return sign + intPart + "." + frac, nil
	}
	return sign + intPart, nil
}

// ungroup quita los puntos de miles; cada grupo tras el primero tiene tres dígitos.
func ungroup(s string) (string, bool) {
	groups := strings.Split(s, ".")
	if len(groups[0]) == 0 || len(groups[0]) > 3 {
		return "", false
	}
	for _, g := range groups[1:] {
		if len(g) != 3 {
			return "", false
		}
	}
	return strings.Join(groups, ""), true
}

// Format devuelve el decimal con separadores pt-BR y `places` decimales, sin
// pasar por float64.
func Format(d decimal.Decimal, places int32) string {
	s := d.StringFixed(places)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac, _ := strings.Cut(s, ".")
	var grouped string
	if n, err := strconv.ParseInt(intPart, 10, 64); err == nil {
		grouped = printer.Sprintf("%d", n)
	} else {
		// Fuera de int64.
		grouped = group(intPart)
	}
	if frac == "" {
		return sign + grouped
	}
	return sign + grouped + "," + frac
}

func group(digits string) string {
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Currency devuelve el valor en reales, ej. "R$ 1.234,56".
func Currency(d decimal.Decimal) string {
	return "R$ " + Format(d, 2)
}

// Input devuelve el decimal como lo escribiría un usuario (coma decimal, sin miles).
func Input(d decimal.Decimal) string {
	return strings.Replace(d.String(), ".", ",", 1)
}
