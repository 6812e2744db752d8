package bootstrap

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/patrickprogramme/gifcut/internal/fsutil"
)

// Statuts retournés par ExportDefaults
const (
	StatusWritten     = "written"
	StatusUnchanged   = "unchanged"
	StatusSkipped     = "skipped (different)"
	StatusOverwritten = "overwritten"
)

// ExportDefaults copie récursivement tous les fichiers sous srcPrefix (dans fsys)
// vers destDir en préservant la hiérarchie relative.
// - srcPrefix : chemin racine dans fsys à copier (ex: "templates", "." pour tout)
// - force : si true, écrase les fichiers différents (avec backup)
//
// Retourne une map[embeddedPath]status et une erreur globale si Walk échoue.
func ExportDefaults(fsys fs.FS, srcPrefix, destDir string, force bool) (map[string]string, error) {
	status := make(map[string]string)

	err := fs.WalkDir(fsys, srcPrefix, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}

		rel, err := filepath.Rel(srcPrefix, path)
		if err != nil {
			return err
		}

		if d.IsDir() {
			if rel == "." {
				return nil
			}
			return os.MkdirAll(filepath.Join(destDir, rel), fsutil.DirPerm)
		}

		data, err := fs.ReadFile(fsys, filepath.ToSlash(path))
		if err != nil {
			status[path] = "error: read embedded failed"
			return err
		}

		destPath := filepath.Join(destDir, rel)

		// fichier déjà présent : comparer
		if existing, err := os.ReadFile(destPath); err == nil {
			if bytes.Equal(existing, data) {
				status[path] = StatusUnchanged
				return nil
			}
			if !force {
				status[path] = StatusSkipped
				return nil
			}
			backup := destPath + ".bak." + time.Now().Format("20060102T150405")
			if err := os.WriteFile(backup, existing, fsutil.FilePerm); err != nil {
				status[path] = "error: backup failed"
				return fmt.Errorf("backup failed for %s: %w", destPath, err)
			}
			if err := fsutil.WriteFileAtomic(destPath, data, fsutil.FilePerm); err != nil {
				status[path] = "error: overwrite failed"
				return err
			}
			status[path] = StatusOverwritten
			return nil
		}

		if err := fsutil.WriteFileAtomic(destPath, data, fsutil.FilePerm); err != nil {
			status[path] = "error: write failed"
			return err
		}
		status[path] = StatusWritten
		return nil
	})

	return status, err
}

// EnsureTemplatesPresent s'assure que les templates listés existent dans tplDir.
//
//   - tplDir absent ou vide : création puis copie de tous les fichiers de srcFiles.
//   - tplDir non vide : seuls les fichiers manquants sont copiés.
//
// Ne remplace jamais un fichier existant (l'utilisateur peut éditer ses templates).
// Les chemins de srcFiles doivent être utilisables avec fs.ReadFile(fsys, path).
func EnsureTemplatesPresent(tplDir string, fsys fs.FS, srcFiles []string) error {
	parent := filepath.Dir(tplDir)
	if st, err := os.Stat(parent); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("le répertoire parent n'existe pas : %s", parent)
		}
		return fmt.Errorf("échec lors du test du répertoire parent %s : %w", parent, err)
	} else if !st.IsDir() {
		return fmt.Errorf("le parent existe mais n'est pas un répertoire : %s", parent)
	}

	if _, err := fsutil.EnsureDir(tplDir); err != nil {
		return fmt.Errorf("échec de création du répertoire de templates %s : %w", tplDir, err)
	}

	for _, src := range srcFiles {
		dest := filepath.Join(tplDir, filepath.Base(src))
		if _, err := os.Stat(dest); err == nil {
			continue
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("échec lors du test du fichier %s : %w", dest, err)
		}
		if err := copyAsset(fsys, src, dest); err != nil {
			return err
		}
	}
	return nil
}

func copyAsset(fsys fs.FS, src, dest string) error {
	data, err := fs.ReadFile(fsys, filepath.ToSlash(src))
	if err != nil {
		return fmt.Errorf("fichier embarqué introuvable %s : %w", src, err)
	}
	if err := fsutil.WriteFileAtomic(dest, data, fsutil.FilePerm); err != nil {
		return fmt.Errorf("échec d'écriture du fichier %s : %w", dest, err)
	}
	return nil
}
