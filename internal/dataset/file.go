package dataset

import (
	"bufio"
	"context"
	"errors"
	"io"
	"io/fs"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	apperrors "github.com/agbru/parsum/internal/errors"
)

// ctxCheckInterval is how many lines are processed between context checks.
const ctxCheckInterval = 1 << 16

// Generate writes size random values in [1, maxValue] to w, one per line.
func Generate(ctx context.Context, w io.Writer, size, maxValue int, rng *rand.Rand) error {
	if maxValue <= 0 {
		return apperrors.InvalidArgumentError{Name: "maxValue", Value: maxValue}
	}
	bw := bufio.NewWriter(w)
	buf := make([]byte, 0, 16)
	for i := 0; i < size; i++ {
		if i%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		buf = strconv.AppendInt(buf[:0], int64(rng.IntN(maxValue)+1), 10)
		buf = append(buf, '\n')
		if _, err := bw.Write(buf); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// EnsureFile generates the dataset at path unless a file already exists
// there. An existing file is never touched. A new file is written to a
// temporary name and renamed into place so an interrupted run cannot leave a
// truncated dataset behind.
//
// Returns:
//   - bool: true if the file was generated by this call.
func EnsureFile(ctx context.Context, path string, size, maxValue int, rng *rand.Rand) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return false, apperrors.WrapError(err, "stat dataset %s", path)
	}

	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return false, apperrors.WrapError(err, "create dataset directory")
		}
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return false, apperrors.WrapError(err, "create dataset file")
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if err := Generate(ctx, tmp, size, maxValue, rng); err != nil {
		tmp.Close()
		return false, apperrors.WrapError(err, "write dataset %s", path)
	}
	if err := tmp.Close(); err != nil {
		return false, apperrors.WrapError(err, "write dataset %s", path)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return false, apperrors.WrapError(err, "install dataset %s", path)
	}
	return true, nil
}

// Parse reads one signed 32-bit integer per line. A trailing newline at the
// end of input does not count as a line; CRLF endings are accepted. The
// first malformed line aborts parsing with an apperrors.ParseError.
func Parse(ctx context.Context, r io.Reader, path string) ([]int32, error) {
	var data []int32
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		if line%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		text := strings.TrimSuffix(sc.Text(), "\r")
		v, err := strconv.ParseInt(text, 10, 32)
		if err != nil {
			return nil, apperrors.ParseError{Path: path, Line: line, Text: text, Cause: err}
		}
		data = append(data, int32(v))
	}
	if err := sc.Err(); err != nil {
		return nil, apperrors.WrapError(err, "read dataset %s", path)
	}
	return data, nil
}

// ReadFile opens and parses the dataset at path.
func ReadFile(ctx context.Context, path string) ([]int32, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.WrapError(err, "open dataset")
	}
	defer f.Close()

	r := bufio.NewReaderSize(f, 1<<20)
	data, err := Parse(ctx, r, path)
	if err != nil {
		return nil, err
	}
	return data, nil
}
