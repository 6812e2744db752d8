package config

import (
	"fmt"
	"os"
	"time"

	"github.com/patrickprogramme/gifcut/internal/fsutil"
	"gopkg.in/yaml.v3"
)

// legacyV1 : clés à plat de la version 1 (avant le regroupement sous clip:).
type legacyV1 struct {
	OutputDir  string  `yaml:"output_dir"`
	ClipLength float64 `yaml:"clip_length"`
	FPS        int     `yaml:"fps"`
}

// orchestrateConfigUpgrade : sauvegarde, migration, écriture
func orchestrateConfigUpgrade(cfg *Config, fromVersion int) error {
	if cfg == nil {
		return fmt.Errorf("config nil lors de la migration")
	}
	if cfg.configFilePath == "" {
		return fmt.Errorf("chemin du fichier de configuration inconnu : impossible de faire une sauvegarde")
	}

	backupPath, raw, err := backupConfig(cfg.configFilePath)
	if err != nil {
		return fmt.Errorf("échec de la sauvegarde du fichier de configuration avant migration : %w", err)
	}

	if err := migrateConfig(cfg, raw, fromVersion); err != nil {
		return fmt.Errorf("échec lors de la migration de la configuration (depuis %d) : %w", fromVersion, err)
	}
	cfg.ConfigVersion = CurrentConfigVersion

	b, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("échec d'encodage YAML de la configuration migrée : %w", err)
	}

	if err := fsutil.WriteFileAtomic(cfg.configFilePath, b, fsutil.FilePerm); err != nil {
		// tentative de restauration depuis la sauvegarde
		_ = fsutil.WriteFileAtomic(cfg.configFilePath, raw, fsutil.FilePerm)
		return fmt.Errorf("échec d'écriture du fichier de configuration migré %s : %w", cfg.configFilePath, err)
	}

	fmt.Printf("info : configuration mise à jour de la version %d à %d (sauvegarde : %s)\n", fromVersion, CurrentConfigVersion, backupPath)
	return nil
}

// backupConfig : sauvegarde le fichier de config, retourne le chemin de la sauvegarde et le contenu lu
func backupConfig(path string) (string, []byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", nil, fmt.Errorf("lecture du fichier pour sauvegarde impossible : %w", err)
	}
	backup := path + ".bak." + time.Now().Format("20060102T150405")
	if err := fsutil.WriteFileAtomic(backup, data, fsutil.FilePerm); err != nil {
		return "", nil, fmt.Errorf("écriture de la sauvegarde %s impossible : %w", backup, err)
	}
	return backup, data, nil
}

// migrateConfig applique les étapes successives entre versions.
// raw est le YAML d'origine, nécessaire pour relire les clés disparues.
func migrateConfig(cfg *Config, raw []byte, from int) error {
	if cfg == nil {
		return fmt.Errorf("pas de config fournie")
	}
	for v := from; v < CurrentConfigVersion; v++ {
		switch v {
		case 0:
			// 0 -> 1 : ajout de config_version, rien d'autre
		case 1:
			// 1 -> 2 : clip_length / fps / output_dir passent sous clip: et output_base_dir
			var old legacyV1
			if err := yaml.Unmarshal(raw, &old); err != nil {
				return fmt.Errorf("lecture des clés v1 : %w", err)
			}
			if old.ClipLength > 0 {
				cfg.Clip.Length = old.ClipLength
			}
			if old.FPS > 0 {
				cfg.Clip.FPS = old.FPS
			}
			if old.OutputDir != "" {
				cfg.OutputBaseDir = old.OutputDir
			}
		}
	}
	return nil
}
