package service

import "strings"

// NormalizarCPF strips the usual CPF punctuation, keeping digits only.
func NormalizarCPF(cpf string) string {
	var b strings.Builder
	for _, r := range cpf {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ValidarCPF verifies the two CPF check digits. Input may be punctuated.
// Sequences of a single repeated digit (000..., 111...) are valid by the
// arithmetic but rejected by convention.
func ValidarCPF(cpf string) bool {
	digits := NormalizarCPF(cpf)
	if len(digits) != 11 {
		return false
	}

	repetido := true
	for i := 1; i < 11; i++ {
		if digits[i] != digits[0] {
			repetido = false
			break
		}
	}
	if repetido {
		return false
	}

	// First check digit: weights 10..2 over the first 9 digits.
	soma := 0
	for i := 0; i < 9; i++ {
		soma += int(digits[i]-'0') * (10 - i)
	}
	dv1 := (soma * 10) % 11
	if dv1 == 10 {
		dv1 = 0
	}
	if dv1 != int(digits[9]-'0') {
		return false
	}

	// Second check digit: weights 11..2 over the first 10 digits.
	soma = 0
	for i := 0; i < 10; i++ {
		soma += int(digits[i]-'0') * (11 - i)
	}
	dv2 := (soma * 10) % 11
	if dv2 == 10 {
		dv2 = 0
	}
	return dv2 == int(digits[10]-'0')
}
