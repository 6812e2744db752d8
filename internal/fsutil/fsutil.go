package fsutil

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

const (
	DirPerm  = 0o755
	FilePerm = 0o644
)

// IsDirEmpty renvoie true si le répertoire spécifié par path est vide, false sinon.
func IsDirEmpty(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, err
	}
	if !info.IsDir() {
		return false, fmt.Errorf("%s is not a directory", path)
	}

	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	// un seul nom suffit pour savoir
	_, err = f.Readdirnames(1)
	if err == io.EOF {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return false, nil
}

// EnsureDir crée path (et ses parents) s'il n'existe pas.
// created vaut true si le dossier a été créé, false s'il existait déjà.
func EnsureDir(path string) (created bool, err error) {
	info, err := os.Stat(path)
	if err == nil {
		if !info.IsDir() {
			return false, fmt.Errorf("%s existe mais n'est pas un répertoire", path)
		}
		return false, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return false, fmt.Errorf("stat %s: %w", path, err)
	}
	if err := os.MkdirAll(path, DirPerm); err != nil {
		return false, fmt.Errorf("mkdir %s: %w", path, err)
	}
	return true, nil
}

// FileExists : true si path existe et n'est pas un répertoire.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// DirHasMatchingFiles vérifie si le répertoire path contient au moins un fichier
// correspondant à l'un des motifs (syntaxe filepath.Match, non récursif).
func DirHasMatchingFiles(path string, patterns []string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	if !info.IsDir() {
		return false, errors.New("path exists but is not a directory")
	}

	for _, pat := range patterns {
		matches, err := filepath.Glob(filepath.Join(path, pat))
		if err != nil {
			return false, err
		}
		if len(matches) > 0 {
			return true, nil
		}
	}
	return false, nil
}

// WriteFileAtomic écrit data dans destPath : fichier temporaire dans le même
// répertoire puis os.Rename. Crée les répertoires parents si nécessaire.
func WriteFileAtomic(destPath string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(destPath)
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, DirPerm); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	// cleanup si échec (après le rename, Remove échoue silencieusement)
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	_ = tmp.Sync()

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	_ = os.Chmod(tmpName, perm)

	if err := os.Rename(tmpName, destPath); err != nil {
		return fmt.Errorf("rename tmp -> dest: %w", err)
	}
	return nil
}

// SaveAtomic écrit content dans outDir/name en écrasant un fichier existant.
// Retourne le chemin final du fichier.
func SaveAtomic(outDir, name string, content []byte) (string, error) {
	if name == "" {
		return "", fmt.Errorf("name empty")
	}
	if err := os.MkdirAll(outDir, DirPerm); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", outDir, err)
	}

	final := filepath.Join(outDir, name)
	if err := WriteFileAtomic(final, content, FilePerm); err != nil {
		return "", err
	}
	return final, nil
}
