package main

import "bytes"
import "compress/gzip"
import "context"
import "encoding/binary"
import "image/png"
import "io"
import "log/slog"
import "net/http"
import "net/http/httptest"
import "os"
import "path/filepath"
import "strings"
import "testing"

import "github.com/neurlang/mnist3d/classifier"
import "github.com/neurlang/mnist3d/datasets/mnist"
import "github.com/neurlang/mnist3d/layout"
import "github.com/neurlang/mnist3d/manifest"

func gzipped(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	w.Write(data)
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func header(fields ...uint32) []byte {
	var b []byte
	for _, f := range fields {
		b = binary.BigEndian.AppendUint32(b, f)
	}
	return b
}

func idxFiles() (images, labels []byte) {
	images = header(0x803, 4, 28, 28)
	for i := 0; i < 4; i++ {
		for j := 0; j < 28*28; j++ {
			images = append(images, byte((i*j)%256))
		}
	}
	labels = append(header(0x801, 4), 3, 1, 4, 1)
	return images, labels
}

func TestRunSample(t *testing.T) {
	images, labels := idxFiles()
	files := map[string][]byte{
		"/images.gz": gzipped(t, images),
		"/labels.gz": gzipped(t, labels),
	}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, ok := files[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Write(data)
	}))
	defer ts.Close()

	dir := filepath.Join(t.TempDir(), "sample")
	src := mnist.Source{ImagesURL: ts.URL + "/images.gz", LabelsURL: ts.URL + "/labels.gz"}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	if err := runSample(context.Background(), log, src, dir, 3, layout.DefaultOptions()); err != nil {
		t.Fatalf("sample: %v", err)
	}

	entries, err := manifest.Read(filepath.Join(dir, manifest.FileName))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 3 || entries[2].Label != 4 || entries[2].File != "2.png" {
		t.Errorf("manifest: got %+v", entries)
	}
	coords, err := layout.Read(filepath.Join(dir, layout.FileName))
	if err != nil {
		t.Fatal(err)
	}
	if len(coords) != 3 {
		t.Errorf("coords: got %d, want 3", len(coords))
	}
	if _, err := loadScene(dir); err != nil {
		t.Errorf("load scene: %v", err)
	}

	empty := filepath.Join(t.TempDir(), "empty")
	if err := runSample(context.Background(), log, src, empty, 0, layout.DefaultOptions()); err != nil {
		t.Fatalf("empty sample: %v", err)
	}
	if coords, err := layout.Read(filepath.Join(empty, layout.FileName)); err != nil || len(coords) != 0 {
		t.Errorf("empty coords: %v %v", coords, err)
	}
}

func TestRunEvaluate(t *testing.T) {
	images, labels := idxFiles()
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "images.gz"), gzipped(t, images), 0o644)
	os.WriteFile(filepath.Join(dir, "labels.gz"), gzipped(t, labels), 0o644)
	weights := filepath.Join(dir, "mnist.json.lzw")
	if err := classifier.New().SaveWeightsFile(weights); err != nil {
		t.Fatal(err)
	}

	// both archives come from the cache, the urls are never fetched
	src := mnist.Source{ImagesURL: "http://127.0.0.1:1/images.gz", LabelsURL: "http://127.0.0.1:1/labels.gz", CacheDir: dir}
	var out bytes.Buffer
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	if err := runEvaluate(context.Background(), &out, log, src, 4, weights); err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if !strings.HasPrefix(out.String(), "success rate ") || !strings.Contains(out.String(), "of 4)") {
		t.Errorf("got %q", out.String())
	}
}

func TestLoadSceneMissing(t *testing.T) {
	_, err := loadScene(t.TempDir())
	if err == nil || !strings.Contains(err.Error(), "run the sample command") {
		t.Errorf("got %v", err)
	}
}

func TestRunInspect(t *testing.T) {
	images, labels := idxFiles()
	dir := t.TempDir()
	imagesName := filepath.Join(dir, "images.idx")
	labelsName := filepath.Join(dir, "labels.idx.gz")
	os.WriteFile(imagesName, images, 0o644)
	os.WriteFile(labelsName, gzipped(t, labels), 0o644)

	var out bytes.Buffer
	if err := runInspect(&out, imagesName); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "4 images of 28x28") {
		t.Errorf("images: got %q", out.String())
	}

	out.Reset()
	if err := runInspect(&out, labelsName); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"4 labels", "1: 2\n", "3: 1\n", "9: 0\n"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("labels: missing %q in %q", want, out.String())
		}
	}

	bad := filepath.Join(dir, "bad.idx")
	os.WriteFile(bad, header(0x804, 0), 0o644)
	if err := runInspect(&out, bad); err == nil {
		t.Errorf("expected magic error")
	}
}

func TestRunClassify(t *testing.T) {
	dir := t.TempDir()
	weights := filepath.Join(dir, "mnist.json")
	if err := classifier.New().SaveWeightsFile(weights); err != nil {
		t.Fatal(err)
	}
	img, _ := manifest.Render(make([]byte, 28*28), 28, 28)
	name := filepath.Join(dir, "blank.png")
	if err := manifest.WritePNG(name, img); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	if err := runClassify(&out, weights, []string{name}); err != nil {
		t.Fatalf("classify: %v", err)
	}
	if !strings.HasPrefix(out.String(), name+": ") || !strings.Contains(out.String(), " 9=") {
		t.Errorf("got %q", out.String())
	}

	small, _ := manifest.Render(make([]byte, 4), 2, 2)
	var buf bytes.Buffer
	png.Encode(&buf, small)
	smallName := filepath.Join(dir, "small.png")
	os.WriteFile(smallName, buf.Bytes(), 0o644)
	if err := runClassify(&out, weights, []string{smallName}); err == nil {
		t.Errorf("expected input size error")
	}
}

func TestBuildLogger(t *testing.T) {
	var buf bytes.Buffer
	log, err := buildLogger(&buf, "warn", "json")
	if err != nil {
		t.Fatal(err)
	}
	log.Info("hidden")
	log.Warn("shown", "key", "value")
	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), `"key":"value"`) {
		t.Errorf("got %q", buf.String())
	}
	if _, err := buildLogger(&buf, "loud", "text"); err == nil {
		t.Errorf("expected level error")
	}
	if _, err := buildLogger(&buf, "info", "xml"); err == nil {
		t.Errorf("expected format error")
	}
	ctx := withLogger(context.Background(), log)
	if loggerFrom(ctx) != log {
		t.Errorf("logger not carried by the context")
	}
}
