// Package testsupport holds fixtures and golden-file helpers shared by the
// package tests.
package testsupport

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-briefing/pkg/form"
	"github.com/goliatone/go-briefing/pkg/registry"
)

// AcmeTaxID is the masked tax id used across fixtures.
const AcmeTaxID = "12.345.678/0001-95"

// AcmeRegistryJSON is a BrasilAPI style payload for AcmeTaxID. Numbers and
// nulls appear where the live API sends them.
const AcmeRegistryJSON = `{
  "cnpj": "12345678000195",
  "razao_social": "ACME CONSULTORIA LTDA",
  "nome_fantasia": "ACME",
  "logradouro": "RUA A",
  "numero": 10,
  "complemento": null,
  "bairro": "CENTRO",
  "municipio": "PORTO ALEGRE",
  "uf": "RS",
  "cep": "90010000",
  "ddd_telefone_1": "5132223333",
  "cnae_fiscal_descricao": "Consultoria em gestão empresarial"
}`

// AcmeRecord is the normalized form of AcmeRegistryJSON.
func AcmeRecord() registry.Record {
	return registry.Record{
		TaxID:      AcmeTaxID,
		LegalName:  "ACME CONSULTORIA LTDA",
		TradeName:  "ACME",
		Name:       "ACME CONSULTORIA LTDA",
		Address:    "RUA A, 10 - CENTRO",
		City:       "PORTO ALEGRE",
		State:      "RS",
		PostalCode: "90010-000",
		Phone:      "(51) 3222-3333",
		Activity:   "Consultoria em gestão empresarial",
	}
}

// FilledState answers every field, with both "Outro" companions in use.
func FilledState() form.State {
	text := map[form.Key]string{
		form.EmpresaNome:              "Acme Consultoria",
		form.EmpresaCNPJ:              "12345678000195",
		form.EmpresaEndereco:          "Rua A, 10 - Centro",
		form.EmpresaCidade:            "Porto Alegre",
		form.EmpresaUF:                "RS",
		form.EmpresaCEP:               "90010000",
		form.EmpresaTelefone:          "5132223333",
		form.EmpresaSite:              "acme.com.br",
		form.RespNome:                 "Ana Souza",
		form.RespCargo:                "Gerente de RH",
		form.RespTelefone:             "51999998888",
		form.Origem:                   form.OptionOther,
		form.OrigemOutro:              "Evento",
		form.NumColaboradores:         "120",
		form.PrincipaisSetores:        "Comercial e Operações",
		form.TempoMercado:             "10 anos",
		form.Ramo:                     "Consultoria",
		form.MVV:                      "Ética e cuidado",
		form.Clima:                    "Colaborativo",
		form.Lideranca:                "Próxima",
		form.PCS:                      "Sim",
		form.Crescimento:              "Nao",
		form.SociosDiretores:          "2",
		form.NumGestores:              "3",
		form.NumSubordinados:          "0",
		form.TipoVaga:                 "Nova",
		form.MotivoAbertura:           "Expansão",
		form.TituloCargo:              "Analista de RH",
		form.Setor:                    "Recursos Humanos",
		form.TipoContratoOutro:        "Freelance",
		form.Horario:                  "9h às 18h",
		form.ModeloTrabalho:           "Hibrido",
		form.FaixaSalarial:            "R$ 4.000 a R$ 5.500",
		form.Beneficios:               "VR, VT",
		form.PrevisaoInicio:           "2026-03-01",
		form.FormacaoMinima:           "Superior completo",
		form.TecnicosObrigatorios:     "Excel",
		form.TecnicosDesejaveis:       "Power BI",
		form.ComportamentaisEsperadas: "Comunicação",
		form.ComportamentaisDesejadas: "Liderança",
		form.FitCultural:              "Colaboração",
		form.EntregasIniciais:         "Mapear processos",
		form.Desafios:                 "Crescimento rápido",
	}
	events := make([]form.Event, 0, len(text)+4)
	for _, key := range form.Keys() {
		if value, ok := text[key]; ok {
			events = append(events, form.SetValue{Key: key, Value: value})
		}
	}
	events = append(events,
		form.ToggleOption{Key: form.ModeloAtuacao, Option: "Hibrido", Checked: true},
		form.ToggleOption{Key: form.ModeloAtuacao, Option: "Presencial", Checked: true},
		form.ToggleOption{Key: form.TipoContrato, Option: "CLT", Checked: true},
		form.ToggleOption{Key: form.TipoContrato, Option: form.OptionOther, Checked: true},
	)
	return form.Reduce(form.New(), events...)
}

// LoadAnswers reads an answers fixture into a state.
func LoadAnswers(t *testing.T, path string) form.State {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read answers: %v", err)
	}
	state, err := form.LoadAnswers(data)
	if err != nil {
		t.Fatalf("load answers: %v", err)
	}
	return state
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

// MustReadGoldenString reads a golden file and returns its content.
func MustReadGoldenString(t *testing.T, path string) string {
	t.Helper()
	data, err := ReadGolden(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return string(data)
}

// ReadGolden returns the raw golden bytes.
func ReadGolden(path string) ([]byte, error) {
	if path == "" {
		return nil, errors.New("testsupport: golden path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("testsupport: read golden: %w", err)
	}
	return data, nil
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set. Returns
// true if the golden was written (test should exit early).
func WriteMaybeGolden(t *testing.T, path string, data []byte) bool {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}
