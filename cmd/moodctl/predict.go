package main

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"moodmatch/internal/app"
	"moodmatch/internal/bootstrap"
	"moodmatch/internal/taxonomy"
	"moodmatch/internal/vision"
)

var (
	predictModel   string
	predictAll     bool
	predictNoFaces bool
)

var imageExts = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".bmp": true, ".webp": true,
}

var predictCmd = &cobra.Command{
	Use:   "predict <file|dir>...",
	Short: "Classify image files and print label and bucket per taxonomy version",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runPredict,
}

func init() {
	predictCmd.Flags().StringVar(&predictModel, "model", "", "ONNX model to load instead of vision.model_path")
	predictCmd.Flags().BoolVar(&predictAll, "all-versions", false, "Include config-declared taxonomy versions, not only shipped ones")
	predictCmd.Flags().BoolVar(&predictNoFaces, "full-frame", false, "Skip face detection and classify the whole frame")
}

type prediction struct {
	path    string
	result  app.Classification
	buckets map[string]string
	err     error
}

func runPredict(cmd *cobra.Command, args []string) error {
	if predictModel != "" {
		cfg.Vision.ModelPath = predictModel
	}
	if predictNoFaces {
		cfg.Vision.FaceCascadePath = ""
	}

	v, err := bootstrap.NewVision(cfg)
	if err != nil {
		return err
	}
	defer v.Models.Teardown()
	if !v.Models.IsLoaded() {
		return fmt.Errorf("no model loaded from %q", cfg.Vision.ModelPath)
	}

	files, dirs, err := collectImages(args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no image files found")
	}

	svc := app.NewScanService(v.Locator, v.Models, v.Labels, v.Taxonomy, nil, nil, nil, app.ScanServiceConfig{
		Normalization: vision.ParseNormMode(cfg.Vision.Normalization),
	})
	versions := selectVersions(v.Taxonomy.Versions(), predictAll)

	var bar *progressbar.ProgressBar
	if dirs > 0 {
		bar = progressbar.NewOptions(len(files),
			progressbar.OptionSetDescription("Classifying"),
			progressbar.OptionSetWriter(cmd.ErrOrStderr()),
			progressbar.OptionShowCount(),
			progressbar.OptionShowIts(),
			progressbar.OptionSetItsString("images"),
			progressbar.OptionShowElapsedTimeOnFinish(),
		)
	}

	start := time.Now()
	results := make([]prediction, 0, len(files))
	for _, path := range files {
		results = append(results, classifyFile(svc, v.Taxonomy, versions, path))
		if bar != nil {
			_ = bar.Add(1)
		}
	}
	if bar != nil {
		_ = bar.Finish()
		fmt.Fprintln(cmd.ErrOrStderr())
	}

	printPredictions(cmd.OutOrStdout(), results, versions)
	fmt.Fprintf(cmd.ErrOrStderr(), "%d images in %s (model %s)\n",
		len(results), time.Since(start).Round(time.Millisecond), v.Models.Status().Contract)
	return nil
}

func classifyFile(svc *app.ScanService, registry *taxonomy.Registry, versions []taxonomy.Version, path string) prediction {
	out := prediction{path: path, buckets: map[string]string{}}
	data, err := os.ReadFile(path)
	if err != nil {
		out.err = err
		return out
	}
	out.result, out.err = svc.Classify(data)
	if out.err != nil {
		return out
	}
	for _, v := range versions {
		bucket, err := registry.Map(v.ID, out.result.Label)
		if err != nil {
			bucket = "?"
		}
		out.buckets[v.ID] = bucket
	}
	return out
}

// collectImages expands directories into their image files, sorted.
func collectImages(args []string) ([]string, int, error) {
	var files []string
	dirs := 0
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, 0, err
		}
		if !info.IsDir() {
			files = append(files, arg)
			continue
		}
		dirs++
		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && imageExts[strings.ToLower(filepath.Ext(path))] {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, 0, fmt.Errorf("walk %s failed: %w", arg, err)
		}
	}
	sort.Strings(files)
	return files, dirs, nil
}

func selectVersions(all []taxonomy.Version, includeConfigured bool) []taxonomy.Version {
	out := make([]taxonomy.Version, 0, len(all))
	for _, v := range all {
		if v.Shipped || includeConfigured {
			out = append(out, v)
		}
	}
	return out
}

func printPredictions(w io.Writer, results []prediction, versions []taxonomy.Version) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	header := []string{"FILE", "FACE", "LABEL", "SCORE"}
	for _, v := range versions {
		header = append(header, strings.ToUpper(v.ID))
	}
	fmt.Fprintln(tw, strings.Join(header, "\t"))

	for _, r := range results {
		if r.err != nil {
			fmt.Fprintf(tw, "%s\terror: %v\n", r.path, r.err)
			continue
		}
		row := []string{r.path, fmt.Sprint(r.result.FaceFound), r.result.Label, topScore(r.result)}
		if r.result.Warning != "" {
			row[2] += " (" + r.result.Warning + ")"
		}
		for _, v := range versions {
			row = append(row, r.buckets[v.ID])
		}
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	_ = tw.Flush()
}

func topScore(c app.Classification) string {
	for _, s := range c.Scores {
		if s.Label == c.Label {
			return fmt.Sprintf("%.3f", s.Score)
		}
	}
	return "-"
}
