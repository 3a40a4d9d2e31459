package form_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-briefing/pkg/form"
)

func TestLoadAnswers(t *testing.T) {
	doc := []byte(`
empresa_nome: Acme
empresa_cnpj: 12345678000195
empresa_cep: "90010000"
num_colaboradores: 120
origem: Outro
origem_outro: Evento
modelo_atuacao: Remoto
tipo_contrato: [PJ, CLT, PJ]
`)
	state, err := form.LoadAnswers(doc)
	if err != nil {
		t.Fatalf("load answers: %v", err)
	}

	got := map[string]string{
		"cnpj":  state.Value(form.EmpresaCNPJ),
		"cep":   state.Value(form.EmpresaCEP),
		"count": state.Value(form.NumColaboradores),
		"other": state.Value(form.OrigemOutro),
	}
	want := map[string]string{
		"cnpj":  "12.345.678/0001-95",
		"cep":   "90010-000",
		"count": "120",
		"other": "Evento",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"PJ", "CLT"}, state.Selected(form.TipoContrato)); diff != "" {
		t.Fatalf("contract options mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Remoto"}, state.Selected(form.ModeloAtuacao)); diff != "" {
		t.Fatalf("single string should become one option (-want +got):\n%s", diff)
	}
}

func TestLoadAnswersRejectsUnknownKeys(t *testing.T) {
	_, err := form.LoadAnswers([]byte("zeta: 1\nalpha: 2\nempresa_nome: Acme\n"))
	if err == nil {
		t.Fatal("expected error for unknown keys")
	}
	if !strings.Contains(err.Error(), "alpha, zeta") {
		t.Fatalf("expected sorted unknown keys, got %v", err)
	}
}

func TestLoadAnswersRejectsWrongShapes(t *testing.T) {
	cases := map[string]string{
		"nested scalar": "empresa_nome: {a: 1}\n",
		"nested list":   "tipo_contrato: [[CLT]]\n",
		"bad yaml":      "empresa_nome: [\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := form.LoadAnswers([]byte(doc)); err == nil {
				t.Fatalf("expected error for %q", doc)
			}
		})
	}
}
