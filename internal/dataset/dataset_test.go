package dataset

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDataset_CopyIsIndependent(t *testing.T) {
	d := New("gunpoint", "gun", "point")
	require.NoError(t, d.Add([]float64{1, 2, 3}, 0))
	require.NoError(t, d.Add([]float64{4, 5}, 1))

	c := d.Copy()
	c.Instances[0].Values[0] = 99
	c.SetClassMissing()
	c.ClassNames[0] = "changed"

	assert.Equal(t, 1.0, d.Instances[0].Values[0])
	assert.Equal(t, 0.0, d.Instances[0].Class)
	assert.Equal(t, "gun", d.ClassNames[0])
	assert.True(t, c.Instances[1].ClassMissing())
}

func TestDataset_AddRejectsUnknownClass(t *testing.T) {
	d := New("x", "a")
	assert.Error(t, d.Add([]float64{1}, 1))
	assert.Error(t, d.Add([]float64{1}, -1))
}

func TestDataset_ClassCounts(t *testing.T) {
	d := New("x", "a", "b")
	require.NoError(t, d.Add([]float64{1}, 0))
	require.NoError(t, d.Add([]float64{1}, 1))
	require.NoError(t, d.Add([]float64{1}, 1))
	assert.Equal(t, []int{1, 2}, d.ClassCounts())

	d.SetClassMissing()
	assert.Equal(t, []int{0, 0}, d.ClassCounts())
}

func TestSeries_ExcludesLabelAndCopies(t *testing.T) {
	in := Instance{Values: []float64{1, 2}, Class: 1}
	s := Series(in)
	s[0] = 10

	assert.Equal(t, []float64{1, 2}, in.Values)
	assert.Len(t, s, 2)
}

func TestReadCSV(t *testing.T) {
	input := "up, 1, 2, 3\ndown,3,2,1\n\nup,1,2\n"
	d, err := ReadCSV(strings.NewReader(input), "trend")
	require.NoError(t, err)

	assert.Equal(t, "trend", d.Name)
	assert.Equal(t, []string{"up", "down"}, d.ClassNames)
	require.Equal(t, 3, d.Len())
	assert.Equal(t, []float64{1, 2, 3}, d.Instances[0].Values)
	assert.Equal(t, 1.0, d.Instances[1].Class)
	assert.Len(t, d.Instances[2].Values, 2)
}

func TestReadCSV_Errors(t *testing.T) {
	for name, input := range map[string]string{
		"empty":     "",
		"no values": "a\n",
		"bad float": "a,1,x\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ReadCSV(strings.NewReader(input), "bad")
			assert.Error(t, err)
		})
	}
}

func TestLoadCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Coffee_TRAIN.csv")
	require.NoError(t, os.WriteFile(path, []byte("a,1,2\nb,2,1\n"), 0o600))

	d, err := LoadCSV(path)
	require.NoError(t, err)
	assert.Equal(t, "Coffee_TRAIN", d.Name)
	assert.Equal(t, 2, d.NumClasses())

	_, err = LoadCSV(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}

func TestLoadSplit_SharesVocabulary(t *testing.T) {
	dir := t.TempDir()
	trainPath := filepath.Join(dir, "toy_TRAIN.csv")
	testPath := filepath.Join(dir, "toy_TEST.csv")
	require.NoError(t, os.WriteFile(trainPath, []byte("b,1,2\na,3,4\nb,5,6\n"), 0o600))
	require.NoError(t, os.WriteFile(testPath, []byte("a,1,1\nc,2,2\nb,3,3\n"), 0o600))

	train, test, err := LoadSplit(trainPath, testPath)
	require.NoError(t, err)

	assert.Equal(t, []string{"b", "a", "c"}, train.ClassNames)
	assert.Equal(t, []string{"b", "a", "c"}, test.ClassNames)
	assert.Equal(t, []float64{1, 2, 0}, []float64{
		test.Instances[0].Class, test.Instances[1].Class, test.Instances[2].Class,
	})
	assert.Equal(t, []int{2, 1, 0}, train.ClassCounts())
}

func TestReadCSVWithClasses(t *testing.T) {
	d, err := ReadCSVWithClasses(strings.NewReader("y,1\nx,2\n"), "seeded", []string{"x", "y"})
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y"}, d.ClassNames)
	assert.Equal(t, 1.0, d.Instances[0].Class)
	assert.Equal(t, 0.0, d.Instances[1].Class)
}
