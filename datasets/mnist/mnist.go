// Package mnist fetches the MNIST dataset and turns its samples into classifier inputs
package mnist

import "bytes"
import "compress/gzip"
import "context"
import "crypto/sha256"
import "errors"
import "fmt"
import "io"
import "net/http"
import "os"
import "path"
import "path/filepath"

import "github.com/neurlang/mnist3d/idx"

const TmpDirectory = `/tmp/mnist/`

const DefaultImagesURL = "https://raw.githubusercontent.com/fgnt/mnist/master/train-images-idx3-ubyte.gz"
const DefaultLabelsURL = "https://raw.githubusercontent.com/fgnt/mnist/master/train-labels-idx1-ubyte.gz"

// the held out test set
const TestImagesURL = "https://raw.githubusercontent.com/fgnt/mnist/master/t10k-images-idx3-ubyte.gz"
const TestLabelsURL = "https://raw.githubusercontent.com/fgnt/mnist/master/t10k-labels-idx1-ubyte.gz"

const inferSetImg = "t10k-images-idx3-ubyte.gz"
const inferSetVal = "t10k-labels-idx1-ubyte.gz"
const trainSetImg = "train-images-idx3-ubyte.gz"
const trainSetVal = "train-labels-idx1-ubyte.gz"

// digests of the original archives, by file name
var digests = map[string]string{
	inferSetImg: "8d422c7b0a1c1c79245a5bcf07fe86e33eeafee792b84584aec276f5a2dbc4e6",
	inferSetVal: "f7ae60f92e00ec6debd23a6088c31dbd2371eca3ffa0defaefb259924204aec6",
	trainSetImg: "440fcabf73cc546fa21475e81ea370265605f56be210a4024d2ca8f203523609",
	trainSetVal: "3552534a0a558bbed6aed32b30c495cca23d567ec52cac8be1a0730e8010255c",
}

var ErrDigest = errors.New("mnist: file hash is incorrect")

// TransportError reports a failed download of a dataset file
type TransportError struct {
	URL    string
	Status int
	Err    error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("mnist: fetch '%s': %v", e.URL, e.Err)
	}
	return fmt.Sprintf("mnist: fetch '%s': status %d", e.URL, e.Status)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Source describes where the gzipped IDX files come from
type Source struct {
	ImagesURL string
	LabelsURL string

	// CacheDir keeps downloaded archives, empty disables caching
	CacheDir string

	// Verify checks archives with known names against their sha256 digest
	Verify bool

	Client *http.Client
}

// DefaultSource returns the MNIST training set mirror, cached in TmpDirectory
func DefaultSource() Source {
	return Source{
		ImagesURL: DefaultImagesURL,
		LabelsURL: DefaultLabelsURL,
		CacheDir:  TmpDirectory,
		Verify:    true,
	}
}

// Sample is a decoded prefix of the dataset, Labels[i] belongs to Images.Pixels[i]
type Sample struct {
	Images idx.Images
	Labels []byte
}

// Len returns the number of samples
func (s *Sample) Len() int {
	return s.Images.Len()
}

// Load fetches both dataset files and decodes the first count samples
func Load(ctx context.Context, src Source, count int) (*Sample, error) {
	imgBuffer, err := src.Fetch(ctx, src.ImagesURL)
	if err != nil {
		return nil, err
	}
	labelBuffer, err := src.Fetch(ctx, src.LabelsURL)
	if err != nil {
		return nil, err
	}
	images, err := idx.DecodeImages(imgBuffer, count)
	if err != nil {
		return nil, fmt.Errorf("decode '%s': %w", src.ImagesURL, err)
	}
	labels, err := idx.DecodeLabels(labelBuffer, count)
	if err != nil {
		return nil, fmt.Errorf("decode '%s': %w", src.LabelsURL, err)
	}
	return &Sample{Images: images, Labels: labels}, nil
}

// Fetch returns the uncompressed contents of the gzipped file at url,
// reading it from the cache directory when present.
func (s Source) Fetch(ctx context.Context, url string) ([]byte, error) {
	var name = path.Base(url)
	var cached string
	if s.CacheDir != "" {
		cached = filepath.Join(s.CacheDir, name)
	}
	var compressed []byte
	if cached != "" {
		data, err := os.ReadFile(cached)
		if err == nil {
			compressed = data
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("Cannot read cached file '%s': %w", cached, err)
		}
	}
	var downloaded bool
	if compressed == nil {
		data, err := s.download(ctx, url)
		if err != nil {
			return nil, err
		}
		compressed = data
		downloaded = true
	}
	if s.Verify {
		if digest, ok := digests[name]; ok {
			if fmt.Sprintf("%x", sha256.Sum256(compressed)) != digest {
				return nil, fmt.Errorf("%w: '%s'", ErrDigest, name)
			}
		}
	}
	data, err := gunzip(compressed)
	if err != nil {
		return nil, fmt.Errorf("Gzip file '%s' Error: %w", name, err)
	}
	if downloaded && cached != "" {
		if err := os.MkdirAll(s.CacheDir, 0o755); err != nil {
			return nil, err
		}
		if err := os.WriteFile(cached, compressed, 0o644); err != nil {
			return nil, err
		}
	}
	return data, nil
}

func (s Source) download(ctx context.Context, url string) ([]byte, error) {
	var client = s.Client
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &TransportError{URL: url, Err: err}
	}
	res, err := client.Do(req)
	if err != nil {
		return nil, &TransportError{URL: url, Err: err}
	}
	defer res.Body.Close()
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, &TransportError{URL: url, Status: res.StatusCode}
	}
	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, &TransportError{URL: url, Status: res.StatusCode, Err: err}
	}
	return data, nil
}

func gunzip(compressed []byte) ([]byte, error) {
	gzipReader, err := gzip.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, err
	}
	defer gzipReader.Close()
	var uncompressedBuffer bytes.Buffer
	if _, err := uncompressedBuffer.ReadFrom(gzipReader); err != nil {
		return nil, err
	}
	return uncompressedBuffer.Bytes(), nil
}
