// Package composer turns a briefing form state into the hand-off chat message
// and the wa.me deep link that carries it.
package composer

import (
	"strings"

	"github.com/goliatone/go-briefing/pkg/form"
)

const (
	DefaultTitle       = "EvoluxRH — Briefing da Vaga"
	DefaultHost        = "wa.me"
	DefaultDestination = "5551993796131"
)

// Options configures the message header and deep-link target.
type Options struct {
	Title       string
	Host        string
	Destination string
}

type OptionFn func(*Options)

func DefaultOptions() Options {
	return Options{
		Title:       DefaultTitle,
		Host:        DefaultHost,
		Destination: DefaultDestination,
	}
}

func NewOptions(fns ...OptionFn) Options {
	opts := DefaultOptions()
	for _, fn := range fns {
		if fn == nil {
			continue
		}
		fn(&opts)
	}
	if strings.TrimSpace(opts.Title) == "" {
		opts.Title = DefaultTitle
	}
	opts.Host = strings.Trim(strings.TrimSpace(opts.Host), "/")
	if opts.Host == "" {
		opts.Host = DefaultHost
	}
	opts.Destination = strings.Trim(strings.TrimSpace(opts.Destination), "/")
	if opts.Destination == "" {
		opts.Destination = DefaultDestination
	}
	return opts
}

func WithTitle(title string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Title = title
	}
}

func WithHost(host string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Host = host
	}
}

func WithDestination(destination string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Destination = destination
	}
}

// Composer renders form state into the hand-off message.
type Composer struct {
	opts Options
}

func New(fns ...OptionFn) *Composer {
	return &Composer{opts: NewOptions(fns...)}
}

// Options returns the resolved configuration.
func (c *Composer) Options() Options {
	return c.opts
}

// Message renders state into the fixed-order text block. Missing values
// render empty; nothing is validated.
func (c *Composer) Message(state form.State) string {
	v := func(key form.Key) string { return strings.TrimSpace(state.Value(key)) }
	list := func(key form.Key) string { return joinSelected(state.Selected(key)) }

	origem := v(form.Origem)
	if origem == form.OptionOther {
		origem += parenthetical(v(form.OrigemOutro))
	}
	contrato := list(form.TipoContrato)
	if state.IsSelected(form.TipoContrato, form.OptionOther) {
		contrato += parenthetical(v(form.TipoContratoOutro))
	}

	lines := []string{
		c.opts.Title,
		"",
		"*1. Dados da Empresa*",
		"- Nome: " + v(form.EmpresaNome),
		"- CNPJ: " + v(form.EmpresaCNPJ),
		"- Endereço: " + v(form.EmpresaEndereco),
		"- Cidade/UF: " + v(form.EmpresaCidade) + "/" + v(form.EmpresaUF),
		"- CEP: " + v(form.EmpresaCEP),
		"- Telefone: " + v(form.EmpresaTelefone),
		"- Site/Redes: " + v(form.EmpresaSite),
		"",
		"*2. Responsável pelo Processo*",
		"- Nome: " + v(form.RespNome),
		"- Cargo: " + v(form.RespCargo),
		"- Telefone: " + v(form.RespTelefone),
		"- Como chegou: " + origem,
		"",
		"*3. Informações Gerais da Empresa*",
		"- Nº colaboradores: " + v(form.NumColaboradores),
		"- Setores: " + v(form.PrincipaisSetores),
		"- Tempo de mercado: " + v(form.TempoMercado),
		"- Modelo de atuação: " + list(form.ModeloAtuacao),
		"- Ramo/segmento: " + v(form.Ramo),
		"- MVV: " + v(form.MVV),
		"- Clima: " + v(form.Clima),
		"- Liderança: " + v(form.Lideranca),
		"- Plano cargos e salários: " + v(form.PCS),
		"- Perspectiva de crescimento: " + v(form.Crescimento),
		"",
		"*4. Estrutura e Gestão*",
		"- Sócios/Diretores: " + v(form.SociosDiretores),
		"- Nº gestores diretos: " + v(form.NumGestores),
		"- Subordinados diretos do cargo: " + v(form.NumSubordinados),
		"- Tipo da vaga: " + v(form.TipoVaga),
		"- Motivo da abertura: " + v(form.MotivoAbertura),
		"",
		"*5. Informações da Vaga*",
		"- Título: " + v(form.TituloCargo),
		"- Setor/Depto: " + v(form.Setor),
		"- Tipo de contrato: " + contrato,
		"- Horário: " + v(form.Horario),
		"- Modelo de trabalho: " + v(form.ModeloTrabalho),
		"- Faixa salarial: " + v(form.FaixaSalarial),
		"- Benefícios: " + v(form.Beneficios),
		"- Previsão de início: " + v(form.PrevisaoInicio),
		"",
		"*6. Perfil Técnico e Comportamental*",
		"- Formação mínima: " + v(form.FormacaoMinima),
		"- Técnicos obrigatórios: " + v(form.TecnicosObrigatorios),
		"- Técnicos desejáveis: " + v(form.TecnicosDesejaveis),
		"- Comportamentais esperadas: " + v(form.ComportamentaisEsperadas),
		"- Comportamentais desejadas: " + v(form.ComportamentaisDesejadas),
		"- Fit cultural: " + v(form.FitCultural),
		"- Entregas iniciais: " + v(form.EntregasIniciais),
		"- Desafios do cargo: " + v(form.Desafios),
	}
	return strings.Join(lines, "\n")
}

// Link builds the deep link carrying message as its text parameter.
func (c *Composer) Link(message string) string {
	return "https://" + c.opts.Host + "/" + c.opts.Destination + "?text=" + EncodeComponent(message)
}

// URL composes state and returns the deep link in one step.
func (c *Composer) URL(state form.State) string {
	return c.Link(c.Message(state))
}

var defaultComposer = New()

// Compose renders state with the default header.
func Compose(state form.State) string {
	return defaultComposer.Message(state)
}

// Link builds a deep link to the default destination.
func Link(message string) string {
	return defaultComposer.Link(message)
}

// URL composes state into the default deep link.
func URL(state form.State) string {
	return defaultComposer.URL(state)
}

func joinSelected(selected []string) string {
	out := make([]string, 0, len(selected))
	for _, option := range selected {
		if option = strings.TrimSpace(option); option != "" {
			out = append(out, option)
		}
	}
	return strings.Join(out, ", ")
}

func parenthetical(text string) string {
	if text == "" {
		return ""
	}
	return " (" + text + ")"
}
