package registry

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/goliatone/go-briefing/pkg/mask"
)

// Record is a normalized registry entry. Every field is optional and empty
// when the registry did not report it.
type Record struct {
	TaxID      string `json:"taxId"`
	LegalName  string `json:"legalName,omitempty"`
	TradeName  string `json:"tradeName,omitempty"`
	Name       string `json:"name,omitempty"`
	Address    string `json:"address,omitempty"`
	City       string `json:"city,omitempty"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postalCode,omitempty"`
	Phone      string `json:"phone,omitempty"`
	Activity   string `json:"activity,omitempty"`
}

// apiRecord mirrors the subset of the BrasilAPI CNPJ payload the form uses.
type apiRecord struct {
	RazaoSocial         looseString `json:"razao_social"`
	NomeFantasia        looseString `json:"nome_fantasia"`
	Logradouro          looseString `json:"logradouro"`
	Numero              looseString `json:"numero"`
	Complemento         looseString `json:"complemento"`
	Bairro              looseString `json:"bairro"`
	Municipio           looseString `json:"municipio"`
	UF                  looseString `json:"uf"`
	CEP                 looseString `json:"cep"`
	DDDTelefone1        looseString `json:"ddd_telefone_1"`
	CNAEFiscalDescricao looseString `json:"cnae_fiscal_descricao"`
}

func (a apiRecord) normalize(taxID string) Record {
	rec := Record{
		TaxID:     mask.TaxID(taxID),
		LegalName: a.RazaoSocial.trim(),
		TradeName: a.NomeFantasia.trim(),
		City:      a.Municipio.trim(),
		State:     a.UF.trim(),
		Activity:  a.CNAEFiscalDescricao.trim(),
	}

	rec.Name = rec.LegalName
	if rec.Name == "" {
		rec.Name = rec.TradeName
	}

	rec.Address = joinAddress(a.Logradouro.trim(), a.Numero.trim(), a.Complemento.trim(), a.Bairro.trim())

	if cep := a.CEP.trim(); cep != "" {
		rec.PostalCode = mask.Postal(cep)
	}
	if phone := mask.Digits(string(a.DDDTelefone1)); phone != "" {
		rec.Phone = mask.Phone(phone)
	}
	return rec
}

// joinAddress renders "street, number, complement - neighborhood", skipping
// empty parts.
func joinAddress(street, number, complement, neighborhood string) string {
	parts := make([]string, 0, 3)
	for _, part := range []string{street, number, complement} {
		if part != "" {
			parts = append(parts, part)
		}
	}
	address := strings.Join(parts, ", ")
	switch {
	case neighborhood == "":
		return address
	case address == "":
		return neighborhood
	default:
		return address + " - " + neighborhood
	}
}

// looseString accepts JSON strings, numbers and null. The registry is not
// consistent about quoting numeric columns.
type looseString string

func (s *looseString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}
	if data[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = looseString(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*s = looseString(n.String())
	return nil
}

func (s looseString) trim() string {
	return strings.TrimSpace(string(s))
}
