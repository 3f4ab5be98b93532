// etikett generates previews for a directory of photos (including camera
// RAW files), asks a vision-language model to describe each one, and stores
// the resulting tags in sidecar files and embedded metadata.
package main

import (
	"context"
	"flag"
	"os"
	"path/filepath"
	"sync"

	_ "image/jpeg"
	_ "image/png"

	"github.com/fsnotify/fsnotify"
	"google.golang.org/genai"
	"k8s.io/klog/v2"

	etikett "github.com/tstromberg/etikett/pkg/etikett"
)

var (
	inDir      = flag.String("in", "", "Location of input directory")
	outDir     = flag.String("out", "", "Location of output directory for previews and sidecars")
	configFile = flag.String("config", "", "optional YAML config file")
	endpoint   = flag.String("endpoint", "", "inference endpoint (ollama backend)")
	model      = flag.String("model", "", "vision model to query")
	backend    = flag.String("backend", "", "tagger backend: ollama or gemini")
	cleanTags  = flag.Bool("clean", false, "persist normalized tags instead of the raw model response")
	archiveDir = flag.String("archive", "", "optional directory to copy processed originals into")
	watchFlag  = flag.Bool("watch", false, "keep watching the input directory for new files")
)

func main() {
	klog.InitFlags(nil)
	flag.Parse()

	c, err := loadConfig()
	if err != nil {
		klog.Exitf("config failed: %v", err)
	}

	if c.InDir == "" {
		klog.Exitf("--in is a required flag")
	}

	if c.OutDir == "" {
		klog.Exitf("--out is a required flag")
	}

	if c.LogFile != "" && flag.Lookup("log_file").Value.String() == "" {
		flag.Set("log_file", c.LogFile)
		flag.Set("alsologtostderr", "true")
	}

	if err := os.MkdirAll(c.OutDir, 0o755); err != nil {
		klog.Exitf("unable to create output directory: %v", err)
	}

	ctx := context.Background()
	tagger, err := newTagger(ctx, c)
	if err != nil {
		klog.Exitf("tagger failed: %v", err)
	}

	sink, err := etikett.NewExifSink()
	if err != nil {
		klog.Exitf("exiftool: %v", err)
	}
	defer func() {
		if err := sink.Close(); err != nil {
			klog.Errorf("Failed to close exiftool: %v", err)
		}
	}()

	p := etikett.NewPipeline(c, tagger, sink)

	klog.Infof("starting batch for %s", c.InDir)
	runBatch(ctx, p, c)
	klog.Infof("batch complete")

	if *watchFlag {
		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			watch(ctx, p, c)
		}()
		wg.Wait()
	}
}

func loadConfig() (*etikett.Config, error) {
	c := &etikett.Config{}
	if *configFile != "" {
		fc, err := etikett.LoadConfig(*configFile)
		if err != nil {
			return nil, err
		}
		c = fc
	}

	if *inDir != "" {
		c.InDir = *inDir
	}
	if *outDir != "" {
		c.OutDir = *outDir
	}
	if *endpoint != "" {
		c.Endpoint = *endpoint
	}
	if *model != "" {
		c.Model = *model
	}
	if *backend != "" {
		c.Backend = *backend
	}
	if *cleanTags {
		c.CleanTags = true
	}
	if *archiveDir != "" {
		c.ArchiveDir = *archiveDir
	}

	c.ApplyDefaults()
	return c, nil
}

func newTagger(ctx context.Context, c *etikett.Config) (etikett.Tagger, error) {
	switch c.Backend {
	case "ollama":
		return etikett.NewOllamaClient(c.Endpoint, c.Model), nil
	case "gemini":
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey: os.Getenv("GOOGLE_AI_API_KEY"),
		})
		if err != nil {
			return nil, err
		}
		return &etikett.GeminiTagger{Client: client, Model: c.Model}, nil
	default:
		klog.Exitf("unknown backend %q", c.Backend)
		return nil, nil
	}
}

// runBatch processes every file in the input directory, sequentially. One
// image's failure never aborts the batch.
func runBatch(ctx context.Context, p *etikett.Pipeline, c *etikett.Config) {
	files, err := etikett.Enumerate(c.InDir)
	if err != nil {
		klog.Errorf("enumerate failed: %v", err)
		return
	}

	for _, f := range files {
		processOne(ctx, p, c, f)
	}
}

func processOne(ctx context.Context, p *etikett.Pipeline, c *etikett.Config, path string) {
	if err := p.Process(ctx, path); err != nil {
		klog.Errorf("processing failed for %s: %v", filepath.Base(path), err)
		return
	}

	if c.ArchiveDir == "" {
		return
	}

	if err := os.MkdirAll(c.ArchiveDir, 0o755); err != nil {
		klog.Errorf("unable to create archive directory: %v", err)
		return
	}

	if err := etikett.Archive(path, c.ArchiveDir); err != nil {
		klog.Errorf("archive failed: %v", err)
	}
}

// watch processes files as they land in the input directory.
func watch(ctx context.Context, p *etikett.Pipeline, c *etikett.Config) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		klog.Errorf("new watcher: %v", err)
		return
	}
	defer w.Close()

	if err := w.Add(c.InDir); err != nil {
		klog.Errorf("watch %s: %v", c.InDir, err)
		return
	}
	klog.Infof("watching %s ...", c.InDir)

	for {
		select {
		case event, ok := <-w.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			fi, err := os.Stat(event.Name)
			if err != nil || !fi.Mode().IsRegular() {
				continue
			}
			processOne(ctx, p, c, event.Name)
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			klog.Errorf("watch error: %v", err)
		}
	}
}
