package service

import "testing"

func TestDeriveShiftLabel(t *testing.T) {
	cases := []struct {
		name     string
		schedule string
		window   string
		previous string
		want     string
	}{
		{"12x36 A dia", "12x36 A", "07:00 às 19:00", "", "Dia A"},
		{"12x36 A noite", "12x36 A", "19:00 às 07:00", "", "Noite A"},
		{"12x36 B dia", "12x36 B", "07:00 às 19:00", "", "Dia B"},
		{"12x36 B noite", "12x36 B", "19:00 às 07:00", "", "Noite B"},
		{"6x1 dia", "6x1", "08:00 às 17:00", "", "Dia"},
		{"6x1 noite", "6x1", "22:00 às 06:00", "", "Noite"},
		{"horista ignora horário", "Horista", "qualquer", "", "Flexível"},
		{"caixa alta e espaços", "12X36  a", "07:00 às 19:00", "", "Dia A"},
		{"escala desconhecida mantém anterior", "5x2", "08:00 às 18:00", "Tarde", "Tarde"},
		{"horário ilegível mantém anterior", "6x1", "??", "Noite", "Noite"},
		{"madrugada é noite", "6x1", "00:00 às 08:00", "", "Noite"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := deriveShiftLabel(tc.schedule, tc.window, tc.previous)
			if got != tc.want {
				t.Errorf("deriveShiftLabel(%q, %q, %q) = %q, esperado %q",
					tc.schedule, tc.window, tc.previous, got, tc.want)
			}
		})
	}
}

func TestWindowPeriod_Boundaries(t *testing.T) {
	if p, ok := windowPeriod("06:00 às 14:00"); !ok || p != periodDay {
		t.Error("06:00 deveria ser dia")
	}
	if p, ok := windowPeriod("17:59"); !ok || p != periodDay {
		t.Error("17h deveria ser dia")
	}
	if p, ok := windowPeriod("18:00 às 02:00"); !ok || p != periodNight {
		t.Error("18:00 deveria ser noite")
	}
	if _, ok := windowPeriod(""); ok {
		t.Error("janela vazia não tem período")
	}
}
