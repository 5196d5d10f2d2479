package project

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// Field describes one moderated project attribute. The schema is the only
// allow-list of keys that may flow from a request or an envelope into a record.
type Field struct {
	Key      string
	Rule     string
	Required bool
	get      func(p *Project) string
	set      func(p *Project, v string) error
}

func (f Field) Get(p *Project) string { return f.get(p) }

func stringField(key, rule string, required bool, ptr func(p *Project) *string) Field {
	return Field{
		Key:      key,
		Rule:     rule,
		Required: required,
		get:      func(p *Project) string { return *ptr(p) },
		set: func(p *Project, v string) error {
			*ptr(p) = v
			return nil
		},
	}
}

var schema = []Field{
	stringField("nomeProjeto", "max=255", true, func(p *Project) *string { return &p.NomeProjeto }),
	stringField("ods", "max=100", true, func(p *Project) *string { return &p.Ods }),
	stringField("prefeitura", "max=100", false, func(p *Project) *string { return &p.Prefeitura }),
	stringField("secretaria", "max=255", false, func(p *Project) *string { return &p.Secretaria }),
	stringField("responsavel", "max=255", false, func(p *Project) *string { return &p.Responsavel }),
	stringField("emailContato", "email,max=255", true, func(p *Project) *string { return &p.EmailContato }),
	stringField("endereco", "max=255", false, func(p *Project) *string { return &p.Endereco }),
	stringField("link", "max=255", false, func(p *Project) *string { return &p.Link }),
	stringField("descricao", "max=500", false, func(p *Project) *string { return &p.Descricao }),
	stringField("descricaoDiferencial", "max=130", false, func(p *Project) *string { return &p.DescricaoDiferencial }),
	stringField("odsRelacionadas", "max=255", false, func(p *Project) *string { return &p.OdsRelacionadas }),
	stringField("website", "max=255", false, func(p *Project) *string { return &p.Website }),
	stringField("instagram", "max=150", false, func(p *Project) *string { return &p.Instagram }),
	stringField("facebook", "max=150", false, func(p *Project) *string { return &p.Facebook }),
	stringField("escala", "max=50", false, func(p *Project) *string { return &p.Escala }),
	{
		Key:  "apoioPlanejamento",
		Rule: "max=2000",
		get:  func(p *Project) string { return p.ApoioPlanejamento },
		set: func(p *Project, v string) error {
			p.ApoioPlanejamento = NormalizeTagList(v)
			return nil
		},
	},
	{
		Key:  "premiado",
		Rule: "boolean",
		get:  func(p *Project) string { return strconv.FormatBool(p.Premiado) },
		set: func(p *Project, v string) error {
			if v == "" {
				return nil
			}
			b, err := strconv.ParseBool(v)
			if err != nil {
				return err
			}
			p.Premiado = b
			return nil
		},
	},
}

var schemaIndex = func() map[string]Field {
	idx := make(map[string]Field, len(schema))
	for _, f := range schema {
		idx[f.Key] = f
	}
	return idx
}()

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func fieldValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
	})
	return validate
}

// Fields returns the schema in declaration order.
func Fields() []Field {
	out := make([]Field, len(schema))
	copy(out, schema)
	return out
}

// LookupField finds a schema entry by key.
func LookupField(key string) (Field, bool) {
	f, ok := schemaIndex[key]
	return f, ok
}

// FilterFields keeps only allow-listed keys, trimming surrounding blanks.
// Anything else, status and ativo included, is dropped.
func FilterFields(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		if _, ok := schemaIndex[k]; ok {
			out[k] = strings.TrimSpace(v)
		}
	}
	return out
}

// SortedKeys returns the keys of fields in order.
func SortedKeys(fields map[string]string) []string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// FieldError names the attribute that failed validation.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("invalid field %s: %s", e.Field, e.Reason)
}

// ValidateFields checks every present value. With requireAll, required keys
// must be present and non-empty.
func ValidateFields(fields map[string]string, requireAll bool) error {
	v := fieldValidator()
	for _, f := range schema {
		value, present := fields[f.Key]
		if f.Required && (requireAll || present) && strings.TrimSpace(value) == "" {
			return &FieldError{Field: f.Key, Reason: "is required"}
		}
		if !present || value == "" {
			continue
		}
		if err := v.Var(value, f.Rule); err != nil {
			return &FieldError{Field: f.Key, Reason: describeRule(err)}
		}
	}
	return nil
}

func describeRule(err error) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return err.Error()
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "max":
		return fmt.Sprintf("exceeds the maximum length of %s characters", fe.Param())
	case "email":
		return "must be a valid email address"
	case "boolean":
		return "must be true or false"
	default:
		return fmt.Sprintf("failed rule %s", fe.Tag())
	}
}

// ApplyFields copies allow-listed values onto p. Unknown keys are ignored.
func ApplyFields(p *Project, fields map[string]string) error {
	for _, f := range schema {
		value, ok := fields[f.Key]
		if !ok {
			continue
		}
		if err := f.set(p, value); err != nil {
			return &FieldError{Field: f.Key, Reason: err.Error()}
		}
	}
	return nil
}

// NormalizeTagList trims each comma separated tag and drops empties.
func NormalizeTagList(raw string) string {
	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			tags = append(tags, t)
		}
	}
	return strings.Join(tags, ",")
}
