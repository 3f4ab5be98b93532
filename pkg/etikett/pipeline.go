package etikett

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"k8s.io/klog/v2"
)

// Source kinds.
const (
	KindRAW      = "raw"
	KindStandard = "standard"
)

// rawExts lists the extensions handled by the RAW path.
var rawExts = map[string]bool{
	".cr3": true,
}

// Task identifies one input file for a single pipeline invocation. Every
// artifact produced for it shares its base name and ID.
type Task struct {
	SrcPath string
	Base    string
	ID      string
	Kind    string
}

// Pipeline carries one image at a time through normalization, the vision
// query, the sidecar write, and the metadata write. It is the unit of
// failure isolation: a returned error aborts that image only.
type Pipeline struct {
	Config *Config
	Tagger Tagger
	Sink   MetadataSink
	IDs    IDGen
	Norm   *Normalizer
}

// NewPipeline assembles a pipeline from a config, a tagger backend, and a
// metadata sink.
func NewPipeline(c *Config, tagger Tagger, sink MetadataSink) *Pipeline {
	return &Pipeline{
		Config: c,
		Tagger: tagger,
		Sink:   sink,
		IDs:    ULIDGen{},
		Norm:   NewNormalizer(c.MinEdge, c.Quality),
	}
}

// NewTask derives the per-invocation identity for path.
func (p *Pipeline) NewTask(path string) Task {
	ext := filepath.Ext(path)
	kind := KindStandard
	if rawExts[strings.ToLower(ext)] {
		kind = KindRAW
	}

	return Task{
		SrcPath: path,
		Base:    strings.TrimSuffix(filepath.Base(path), ext),
		ID:      p.IDs.Next(),
		Kind:    kind,
	}
}

// Process carries a single input file through every stage. A returned error
// means the invocation aborted; the batch driver logs it and moves on. A
// failed metadata write does not abort: the preview and sidecar stand.
func (p *Pipeline) Process(ctx context.Context, path string) error {
	t := p.NewTask(path)
	name := filepath.Base(path)
	klog.Infof("processing %s (kind=%s id=%s)", name, t.Kind, t.ID)

	previewPath := p.previewPath(t)
	if err := p.normalize(t, previewPath); err != nil {
		klog.Errorf("conversion failed for %s: %v", name, err)
		return err
	}
	klog.Infof("preview written: %s", previewPath)

	bs, err := os.ReadFile(previewPath)
	if err != nil {
		serr := stageErr(ErrIO, previewPath, fmt.Errorf("read preview: %w", err))
		klog.Errorf("unable to encode %s: %v", name, serr)
		return serr
	}

	answer, err := p.Tagger.Describe(ctx, bs, p.Config.Prompt)
	if err != nil {
		klog.Errorf("query failed for %s: %v", name, err)
		return err
	}
	klog.Infof("model response received for %s", name)

	tags := p.tagSet(answer)
	sidecarPath := filepath.Join(p.Config.OutDir, t.Base+"_"+t.ID+".txt")
	if err := p.writeSidecar(sidecarPath, answer, tags); err != nil {
		klog.Errorf("sidecar write failed for %s: %v", name, err)
		return err
	}
	klog.Infof("tags saved: %s", sidecarPath)

	if len(tags) > 0 {
		if err := p.Sink.AppendTags(previewPath, tags); err != nil {
			klog.Errorf("metadata write failed for %s: %v", previewPath, err)
		}
	}

	klog.Infof("done: %s -> %s, %s", name, previewPath, sidecarPath)
	return nil
}

func (p *Pipeline) previewPath(t Task) string {
	name := t.Base + "_" + t.ID + ".jpg"
	if t.Kind == KindRAW {
		name = t.Base + "_" + t.ID + "_preview.jpg"
	}
	return filepath.Join(p.Config.OutDir, name)
}

func (p *Pipeline) normalize(t Task, outPath string) error {
	if t.Kind == KindRAW {
		return p.Norm.ConvertRAW(t.SrcPath, outPath)
	}
	return p.Norm.Convert(t.SrcPath, outPath)
}

// tagSet derives the tags to persist for answer. Raw passthrough keeps the
// comma-separated model string as a single unit.
func (p *Pipeline) tagSet(answer string) []string {
	if p.Config.CleanTags {
		return CleanTags(answer)
	}

	answer = strings.TrimSpace(answer)
	if answer == "" {
		return nil
	}
	return []string{answer}
}

// writeSidecar persists the tags next to the preview: one tag per line when
// cleaning, the raw model string as-is otherwise.
func (p *Pipeline) writeSidecar(path string, answer string, tags []string) error {
	content := answer
	if p.Config.CleanTags {
		content = strings.Join(tags, "\n")
	}

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return stageErr(ErrIO, path, fmt.Errorf("write sidecar: %w", err))
	}
	return nil
}
