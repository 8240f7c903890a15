package export

import (
	"bytes"
	"testing"

	"robin/internal/bugstats"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func result(name, arch string, reported int) *bugstats.Result {
	r := &bugstats.Result{
		Name:         name,
		Architecture: arch,
		Metrics:      map[bugstats.Bucket]*bugstats.Metrics{},
		Links:        map[bugstats.Bucket]*bugstats.Links{},
	}
	for i, b := range bugstats.Buckets {
		m := &bugstats.Metrics{ValidReported: reported + i, ValidQAContact: 4}
		m.CatchRatio = bugstats.NewRatio(m.ValidReported, m.ValidQAContact)
		r.Metrics[b] = m
		r.Links[b] = &bugstats.Links{ValidReported: "https://bugzilla.example/buglist.cgi?bucket=" + string(b)}
	}
	return r
}

func open(t *testing.T, data []byte) *excelize.File {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}

func value(t *testing.T, f *excelize.File, cell string) string {
	t.Helper()
	v, err := f.GetCellValue(SheetName, cell)
	require.NoError(t, err)
	return v
}

func TestWorkbookLayout(t *testing.T) {
	data, err := Workbook([]*bugstats.Result{result("KVM_QE_ALL", "", 3), result("kvm", "", 1)})
	require.NoError(t, err)
	f := open(t, data)

	assert.Equal(t, "Team", value(t, f, "A1"))
	assert.Equal(t, "Valid Reported", value(t, f, "B1"))
	assert.Equal(t, "Invalid Ratio", value(t, f, "K1"))

	// all block
	assert.Equal(t, "KVM_QE_ALL", value(t, f, "A2"))
	assert.Equal(t, "3", value(t, f, "B2"))
	assert.Equal(t, "75.00%", value(t, f, "D2"))
	assert.Equal(t, "kvm", value(t, f, "A3"))

	// blank row, then the RHEL 8 block
	assert.Empty(t, value(t, f, "A4"))
	assert.Equal(t, "RHEL 8", value(t, f, "A5"))
	assert.Equal(t, "KVM_QE_ALL", value(t, f, "A6"))
	assert.Equal(t, "4", value(t, f, "B6"))
	assert.Equal(t, "kvm", value(t, f, "A7"))

	assert.Empty(t, value(t, f, "A8"))
	assert.Equal(t, "RHEL 9", value(t, f, "A9"))
	assert.Equal(t, "5", value(t, f, "B10"))
	assert.Equal(t, "kvm", value(t, f, "A11"))
}

func TestWorkbookHyperlinks(t *testing.T) {
	data, err := Workbook([]*bugstats.Result{result("kvm", "", 3)})
	require.NoError(t, err)
	f := open(t, data)

	ok, link, err := f.GetCellHyperLink(SheetName, "B2")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "https://bugzilla.example/buglist.cgi?bucket=all", link)

	ok, link, err = f.GetCellHyperLink(SheetName, "B5")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "https://bugzilla.example/buglist.cgi?bucket=rhel8", link)

	// empty links and ratios stay plain
	ok, _, err = f.GetCellHyperLink(SheetName, "C2")
	require.NoError(t, err)
	assert.False(t, ok)
	ok, _, err = f.GetCellHyperLink(SheetName, "D2")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestWorkbookArchitectureColumn(t *testing.T) {
	data, err := Workbook([]*bugstats.Result{result("kvm", "aarch64", 2)})
	require.NoError(t, err)
	f := open(t, data)

	assert.Equal(t, "Architecture", value(t, f, "B1"))
	assert.Equal(t, "Valid Reported", value(t, f, "C1"))
	assert.Equal(t, "aarch64", value(t, f, "B2"))
	assert.Equal(t, "2", value(t, f, "C2"))
}

func TestWorkbookZeroRatioAndMissingBucket(t *testing.T) {
	r := &bugstats.Result{Name: "empty"}
	data, err := Workbook([]*bugstats.Result{r})
	require.NoError(t, err)
	f := open(t, data)

	assert.Equal(t, "0", value(t, f, "B2"))
	assert.Equal(t, "0", value(t, f, "D2"))
}

func TestWorkbookNoRows(t *testing.T) {
	data, err := Workbook(nil)
	require.NoError(t, err)
	f := open(t, data)

	assert.Equal(t, "Team", value(t, f, "A1"))
	assert.Empty(t, value(t, f, "A2"))
	assert.Equal(t, "RHEL 8", value(t, f, "A3"))
	assert.Equal(t, "RHEL 9", value(t, f, "A5"))
}
