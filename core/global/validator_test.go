package global

import "testing"

func validar(t *testing.T, tag, value string) bool {
	t.Helper()
	if Validate == nil {
		InitValidator()
	}
	return Validate.Var(value, tag) == nil
}

func TestValidateCedula(t *testing.T) {
	cases := []struct {
		cedula string
		valida bool
	}{
		{"1710034065", true},  // dígito verificador correcto
		{"1710034064", false}, // dígito verificador incorrecto
		{"9912345678", false}, // provincia inexistente
		{"171003406", false},  // menos de 10 dígitos
		{"17100340656", false},
		{"17100340ab", false},
		{"", true}, // vacío = opcional
	}

	for _, c := range cases {
		if got := validar(t, "cedula", c.cedula); got != c.valida {
			t.Errorf("cedula %q: válida=%v, se esperaba %v", c.cedula, got, c.valida)
		}
	}
}

func TestValidateRUC(t *testing.T) {
	cases := []struct {
		ruc    string
		valido bool
	}{
		{"1710034065001", true},
		{"1710034065002", false}, // sufijo de establecimiento inválido
		{"1710034064001", false}, // cédula base inválida
		{"1710034065", false},    // largo incorrecto
		{"", true},
	}

	for _, c := range cases {
		if got := validar(t, "ruc", c.ruc); got != c.valido {
			t.Errorf("ruc %q: válido=%v, se esperaba %v", c.ruc, got, c.valido)
		}
	}
}

func TestValidateTelefonoEC(t *testing.T) {
	cases := []struct {
		telefono string
		valido   bool
	}{
		{"0991234567", true},    // celular en formato local
		{"022345678", true},     // fijo de Quito
		{"+593991234567", true}, // formato internacional
		{"12345", false},
		{"0111234567", false}, // segundo dígito fuera de rango
		{"", true},
	}

	for _, c := range cases {
		if got := validar(t, "telefono_ec", c.telefono); got != c.valido {
			t.Errorf("teléfono %q: válido=%v, se esperaba %v", c.telefono, got, c.valido)
		}
	}
}
