package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/DMarby/bandfilter/internal/bmp"
	"github.com/DMarby/bandfilter/internal/database"
	"github.com/DMarby/bandfilter/internal/logger"
	"github.com/DMarby/bandfilter/internal/storage"
	fileStorage "github.com/DMarby/bandfilter/internal/storage/file"
	"github.com/DMarby/bandfilter/internal/storage/spaces"
	"github.com/jamiealquiza/envy"
	"go.uber.org/zap"
)

// Comandline flags
var (
	imageManifestPath = flag.String("image-manifest-path", "./image-manifest.json", "path to the image manifest to update")
	loglevel          = zap.LevelFlag("log-level", zap.InfoLevel, "log level (default \"info\") (debug, info, warn, error, dpanic, panic, fatal)")

	// Storage
	storageBackend = flag.String("storage", "file", "where to read the source images from (file, spaces)")

	// Storage - File
	imagePath = flag.String("image-path", ".", "path to image directory")

	// Storage - Spaces
	storageSpacesSpace          = flag.String("storage-spaces-space", "", "digitalocean space to use")
	storageSpacesPrefix         = flag.String("storage-spaces-prefix", "", "key prefix of the source images within the space")
	storageSpacesEndpoint       = flag.String("storage-spaces-endpoint", "", "spaces endpoint")
	storageSpacesAccessKey      = flag.String("storage-spaces-access-key", "", "spaces access key")
	storageSpacesSecretKey      = flag.String("storage-spaces-secret-key", "", "spaces secret key")
	storageSpacesForcePathStyle = flag.Bool("storage-spaces-force-path-style", false, "use path style addressing, for s3-compatible servers such as minio")
)

func main() {
	envy.Parse("BANDFILTER_MANIFEST")
	flag.Parse()

	log := logger.New(*loglevel)
	defer log.Sync()

	provider, err := setupStorage()
	if err != nil {
		log.Fatalf("error initializing storage: %s", err)
	}

	path, err := filepath.Abs(*imageManifestPath)
	if err != nil {
		log.Fatal(err)
	}

	images, err := readManifest(path)
	if err != nil {
		log.Fatalf("error reading manifest: %s", err)
	}

	if err := fillDimensions(context.Background(), provider, images); err != nil {
		log.Fatal(err)
	}

	if err := writeManifest(path, images); err != nil {
		log.Fatalf("error writing manifest: %s", err)
	}

	log.Infow("updated manifest", "path", path, "images", len(images))
}

func setupStorage() (storage.Provider, error) {
	switch *storageBackend {
	case "file":
		return fileStorage.New(*imagePath)
	case "spaces":
		return spaces.New(
			*storageSpacesSpace,
			*storageSpacesPrefix,
			*storageSpacesEndpoint,
			*storageSpacesAccessKey,
			*storageSpacesSecretKey,
			*storageSpacesForcePathStyle,
		)
	default:
		return nil, fmt.Errorf("invalid storage backend %q", *storageBackend)
	}
}

func readManifest(path string) ([]database.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var images []database.Image
	if err := json.Unmarshal(data, &images); err != nil {
		return nil, err
	}

	return images, nil
}

// fillDimensions sets the width and height of every entry from the header of its source image
func fillDimensions(ctx context.Context, provider storage.Provider, images []database.Image) error {
	for i := range images {
		data, err := provider.Get(ctx, images[i].ID)
		if err != nil {
			return fmt.Errorf("image %s: %w", images[i].ID, err)
		}

		images[i].Width, images[i].Height, err = bmp.DecodeConfig(bytes.NewReader(data))
		if err != nil {
			return fmt.Errorf("image %s: %w", images[i].ID, err)
		}

		if err := images[i].Validate(); err != nil {
			return err
		}
	}

	return nil
}

// writeManifest replaces the manifest at path, so readers never see a partial file
func writeManifest(path string, images []database.Image) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".image-manifest-*.json")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	encoder := json.NewEncoder(tmp)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "    ")

	if err := encoder.Encode(images); err != nil {
		tmp.Close()
		return err
	}

	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), path)
}
