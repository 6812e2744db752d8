package assets

import "embed"

//go:embed gifcut.example.yaml
//go:embed templates/*tmpl
var Embedded embed.FS

// Nom de l'asset de config par défaut (chemin DANS Embedded)
const DefaultConfigAsset = "gifcut.example.yaml"

// DefaultTemplatePaths : templates embarqués exportés à côté du binaire au premier lancement.
var DefaultTemplatePaths = []string{
	"templates/report.md.tmpl",
}

// TemplateByName donne un accès par clé (map).
var TemplateByName = map[string]string{
	"report": "templates/report.md.tmpl",
}
