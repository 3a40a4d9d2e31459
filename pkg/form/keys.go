package form

import "github.com/goliatone/go-briefing/pkg/mask"

// Key names a briefing field. Keys double as HTML input names.
type Key string

// Company data.
const (
	EmpresaNome     Key = "empresa_nome"
	EmpresaCNPJ     Key = "empresa_cnpj"
	EmpresaEndereco Key = "empresa_endereco"
	EmpresaCidade   Key = "empresa_cidade"
	EmpresaUF       Key = "empresa_uf"
	EmpresaCEP      Key = "empresa_cep"
	EmpresaTelefone Key = "empresa_telefone"
	EmpresaSite     Key = "empresa_site"
)

// Process owner.
const (
	RespNome     Key = "resp_nome"
	RespCargo    Key = "resp_cargo"
	RespTelefone Key = "resp_telefone"
	Origem       Key = "origem"
	OrigemOutro  Key = "origem_outro"
)

// General company information.
const (
	NumColaboradores  Key = "num_colaboradores"
	PrincipaisSetores Key = "principais_setores"
	TempoMercado      Key = "tempo_mercado"
	ModeloAtuacao     Key = "modelo_atuacao"
	Ramo              Key = "ramo"
	MVV               Key = "mvv"
	Clima             Key = "clima"
	Lideranca         Key = "lideranca"
	PCS               Key = "pcs"
	Crescimento       Key = "crescimento"
)

// Structure and management.
const (
	SociosDiretores Key = "socios_diretores"
	NumGestores     Key = "num_gestores"
	NumSubordinados Key = "num_subordinados"
	TipoVaga        Key = "tipo_vaga"
	MotivoAbertura  Key = "motivo_abertura"
)

// Job information.
const (
	TituloCargo       Key = "titulo_cargo"
	Setor             Key = "setor"
	TipoContrato      Key = "tipo_contrato"
	TipoContratoOutro Key = "tipo_contrato_outro"
	Horario           Key = "horario"
	ModeloTrabalho    Key = "modelo_trabalho"
	FaixaSalarial     Key = "faixa_salarial"
	Beneficios        Key = "beneficios"
	PrevisaoInicio    Key = "previsao_inicio"
)

// Technical and behavioral profile.
const (
	FormacaoMinima           Key = "formacao_minima"
	TecnicosObrigatorios     Key = "tecnicos_obrigatorios"
	TecnicosDesejaveis       Key = "tecnicos_desejaveis"
	ComportamentaisEsperadas Key = "comportamentais_esperadas"
	ComportamentaisDesejadas Key = "comportamentais_desejadas"
	FitCultural              Key = "fit_cultural"
	EntregasIniciais         Key = "entregas_iniciais"
	Desafios                 Key = "desafios"
)

// OptionOther is the sentinel option that unlocks a companion text field.
const OptionOther = "Outro"

var allKeys = []Key{
	EmpresaNome, EmpresaCNPJ, EmpresaEndereco, EmpresaCidade, EmpresaUF, EmpresaCEP, EmpresaTelefone, EmpresaSite,
	RespNome, RespCargo, RespTelefone, Origem, OrigemOutro,
	NumColaboradores, PrincipaisSetores, TempoMercado, ModeloAtuacao, Ramo, MVV, Clima, Lideranca, PCS, Crescimento,
	SociosDiretores, NumGestores, NumSubordinados, TipoVaga, MotivoAbertura,
	TituloCargo, Setor, TipoContrato, TipoContratoOutro, Horario, ModeloTrabalho, FaixaSalarial, Beneficios, PrevisaoInicio,
	FormacaoMinima, TecnicosObrigatorios, TecnicosDesejaveis, ComportamentaisEsperadas, ComportamentaisDesejadas, FitCultural, EntregasIniciais, Desafios,
}

var multiKeys = map[Key]struct{}{
	ModeloAtuacao: {},
	TipoContrato:  {},
}

var maskedKeys = map[Key]mask.Kind{
	EmpresaCNPJ:     mask.KindTaxID,
	EmpresaCEP:      mask.KindPostal,
	EmpresaTelefone: mask.KindPhone,
	RespTelefone:    mask.KindPhone,
}

var knownKeys = func() map[Key]struct{} {
	out := make(map[Key]struct{}, len(allKeys))
	for _, key := range allKeys {
		out[key] = struct{}{}
	}
	return out
}()

// Keys returns every field key in declaration order.
func Keys() []Key {
	return append([]Key(nil), allKeys...)
}

// Known reports whether key belongs to the briefing schema.
func Known(key Key) bool {
	_, ok := knownKeys[key]
	return ok
}

// IsMulti reports whether key holds an ordered set of selected options.
func IsMulti(key Key) bool {
	_, ok := multiKeys[key]
	return ok
}

// MaskFor returns the input mask applied to key, or mask.KindNone.
func MaskFor(key Key) mask.Kind {
	return maskedKeys[key]
}
