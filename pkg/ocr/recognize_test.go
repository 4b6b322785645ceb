package ocr

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakePredictor struct {
	pages map[string]int
	err   error
	calls []string
}

func (f *fakePredictor) Predict(ctx context.Context, input Input) ([]Page, error) {
	f.calls = append(f.calls, input.Name)
	if f.err != nil {
		return nil, f.err
	}

	pages := make([]Page, f.pages[input.Name])
	for i := range pages {
		pages[i] = samplePage("en")
	}
	return pages, nil
}

func TestRecognizeFansOutFilenames(t *testing.T) {
	p := &fakePredictor{pages: map[string]int{"a.png": 1, "b.pdf": 3, "c.png": 1}}
	inputs := []Input{{Name: "a.png"}, {Name: "b.pdf"}, {Name: "c.png"}}

	res, err := Recognize(context.Background(), p, inputs)
	require.NoError(t, err)
	require.Equal(t, []string{"a.png", "b.pdf", "c.png"}, p.calls)
	require.Equal(t, []string{"a.png", "b.pdf", "b.pdf", "b.pdf", "c.png"}, res.Filenames)
	require.Len(t, res.Pages, 5)

	records, err := BuildResultRecords(res)
	require.NoError(t, err)
	require.Len(t, records, 5)
}

func TestRecognizeError(t *testing.T) {
	boom := errors.New("boom")
	p := &fakePredictor{err: boom}

	_, err := Recognize(context.Background(), p, []Input{{Name: "a.png"}})
	require.ErrorIs(t, err, boom)
	require.Contains(t, err.Error(), "a.png")
}

func TestRecognizeKeepsInputErrors(t *testing.T) {
	p := &fakePredictor{err: InputErrorf("unsupported file format")}

	_, err := Recognize(context.Background(), p, []Input{{Name: "a.png"}})
	require.True(t, IsInputError(err))
}
