package report

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"sync"
	"text/template"

	"github.com/patrickprogramme/gifcut/internal/assets"
	"github.com/patrickprogramme/gifcut/internal/fsutil"
)

// TemplateName : nom (basename) du template de rapport.
const TemplateName = "report.md.tmpl"

// Renderer gère le parsing paresseux (lazy) des templates et fournit des méthodes de rendu.
type Renderer struct {
	templates *template.Template // templates parsés
	fsys      fs.FS              // source des templates (embed.FS ou os.DirFS)
	patterns  []string           // patterns relatifs au fsys
	once      sync.Once          // protège l'initialisation paresseuse
	err       error              // erreur d'initialisation mémorisée
}

// NewRendererFromFS construit un Renderer qui parsera plus tard les patterns
// fournis depuis fsys.
func NewRendererFromFS(fsys fs.FS, patterns []string) (*Renderer, error) {
	if fsys == nil {
		return nil, fmt.Errorf("fsys est nil")
	}
	if len(patterns) == 0 {
		return nil, fmt.Errorf("aucun template fourni")
	}
	cp := append([]string(nil), patterns...)
	return &Renderer{
		fsys:     fsys,
		patterns: cp,
	}, nil
}

// DefaultRenderer lit les templates du dossier tplDir s'il contient des *.tmpl,
// sinon ceux embarqués dans le binaire. Le parsing est immédiat.
func DefaultRenderer(tplDir string) (*Renderer, error) {
	var (
		r   *Renderer
		err error
	)
	if ok, _ := fsutil.DirHasMatchingFiles(tplDir, []string{"*.tmpl"}); ok {
		r, err = NewRendererFromFS(os.DirFS(tplDir), []string{TemplateName})
	} else {
		r, err = NewRendererFromFS(assets.Embedded, []string{assets.TemplateByName["report"]})
	}
	if err != nil {
		return nil, err
	}
	if err := r.ParseNow(); err != nil {
		return nil, err
	}
	return r, nil
}

// parseTemplates effectue le parsing des templates une seule fois (sync.Once).
func (r *Renderer) parseTemplates() error {
	r.once.Do(func() {
		t := template.New("root").Funcs(baseFuncMap())
		for _, p := range r.patterns {
			var parseErr error
			t, parseErr = t.ParseFS(r.fsys, p)
			if parseErr != nil {
				r.err = fmt.Errorf("parse pattern %q: %w", p, parseErr)
				return
			}
		}
		r.templates = t
	})
	return r.err
}

// ParseNow force le parsing immédiat et retourne l'erreur si problème.
func (r *Renderer) ParseNow() error {
	if r == nil {
		return fmt.Errorf("nil renderer")
	}
	return r.parseTemplates()
}

// Render exécute le template nommé tmplName (basename du fichier .tmpl) avec data.
func (r *Renderer) Render(tmplName string, data Data) ([]byte, error) {
	if r == nil {
		return nil, fmt.Errorf("renderer is nil")
	}
	if err := r.parseTemplates(); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := r.templates.ExecuteTemplate(&buf, tmplName, data); err != nil {
		return nil, fmt.Errorf("execute template %s: %w", tmplName, err)
	}
	return buf.Bytes(), nil
}

// Write rend le rapport et l'écrit (en écrasant) dans dir. Retourne le chemin écrit.
func (r *Renderer) Write(dir string, data Data) (string, error) {
	content, err := r.Render(TemplateName, data)
	if err != nil {
		return "", err
	}
	return fsutil.SaveAtomic(dir, Filename, content)
}
