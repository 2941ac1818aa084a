package manifest

import "bytes"
import "errors"
import "os"
import "path/filepath"
import "reflect"
import "testing"

import "github.com/neurlang/mnist3d/idx"

func twoImages() idx.Images {
	return idx.Images{
		Pixels: [][]byte{{10, 20, 30, 40}, {50, 60, 70, 80}},
		Rows:   2,
		Cols:   2,
	}
}

func TestBuild(t *testing.T) {
	entries, err := Build(twoImages(), []byte{7, 1})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	want := []Entry{
		{Index: 0, Label: 7, File: "0.png"},
		{Index: 1, Label: 1, File: "1.png"},
	}
	if !reflect.DeepEqual(entries, want) {
		t.Fatalf("got %+v, want %+v", entries, want)
	}
	if _, err := Build(twoImages(), []byte{7}); !errors.Is(err, ErrLabels) {
		t.Fatalf("got %v, want %v", err, ErrLabels)
	}
}

func TestRender(t *testing.T) {
	img, err := Render([]byte{1, 2, 3, 4, 5, 6}, 2, 3)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if img.Bounds().Dx() != 3 || img.Bounds().Dy() != 2 {
		t.Fatalf("bounds: got %v", img.Bounds())
	}
	// row 1, column 2
	pos := img.PixOffset(2, 1)
	if !bytes.Equal(img.Pix[pos:pos+4], []byte{6, 6, 6, 255}) {
		t.Errorf("pixel (2,1): got %v", img.Pix[pos:pos+4])
	}
	pixels, rows, cols := Pixels(img)
	if rows != 2 || cols != 3 || !bytes.Equal(pixels, []byte{1, 2, 3, 4, 5, 6}) {
		t.Errorf("pixels: got %v %dx%d", pixels, cols, rows)
	}
	if _, err := Render([]byte{1, 2, 3}, 2, 2); err == nil {
		t.Error("expected size error")
	}
}

func TestEmit(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "mnist-sample")
	entries, err := Emit(dir, twoImages(), []byte{7, 1, 4})
	if err != nil {
		t.Fatalf("emit: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries", len(entries))
	}
	read, err := Read(filepath.Join(dir, FileName))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !reflect.DeepEqual(read, entries) {
		t.Fatalf("manifest: got %+v, want %+v", read, entries)
	}
	data, err := os.ReadFile(filepath.Join(dir, FileName))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(data, []byte(`"file": "1.png"`)) {
		t.Errorf("manifest is not indented json: %s", data)
	}
	img, err := ReadPNG(filepath.Join(dir, "1.png"))
	if err != nil {
		t.Fatalf("read png: %v", err)
	}
	pixels, rows, cols := Pixels(img)
	if rows != 2 || cols != 2 || !bytes.Equal(pixels, []byte{50, 60, 70, 80}) {
		t.Errorf("png 1: got %v %dx%d", pixels, cols, rows)
	}
}

func TestEmitAbortsOnWriteError(t *testing.T) {
	dir := t.TempDir()
	// a directory where the first png should go
	if err := os.Mkdir(filepath.Join(dir, "0.png"), 0o755); err != nil {
		t.Fatal(err)
	}
	if _, err := Emit(dir, twoImages(), []byte{7, 1}); err == nil {
		t.Fatal("expected write error")
	}
	if _, err := os.Stat(filepath.Join(dir, FileName)); !os.IsNotExist(err) {
		t.Errorf("manifest written after failed batch: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "1.png")); !os.IsNotExist(err) {
		t.Errorf("batch continued after failure: %v", err)
	}
}

func TestWriteEmpty(t *testing.T) {
	name := filepath.Join(t.TempDir(), FileName)
	if err := Write(name, nil); err != nil {
		t.Fatal(err)
	}
	data, _ := os.ReadFile(name)
	if string(data) != "[]" {
		t.Errorf("got %q, want []", data)
	}
}
