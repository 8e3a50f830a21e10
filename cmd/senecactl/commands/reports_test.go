package commands

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/senecapartners/seneca-cms-backend/internal/reports"
)

func sampleLinkReport() *reports.DeadLinkReport {
	ok := reports.LinkResult{URL: "https://seneca.kz/tour", Source: "Видео #1", Status: "200", StatusCode: 200, OK: true}
	bad := reports.LinkResult{URL: "https://seneca.kz/gone", Source: "План #4", Status: "404", StatusCode: 404}
	return &reports.DeadLinkReport{AllChecked: []reports.LinkResult{ok, bad}, Broken: []reports.LinkResult{bad}}
}

func TestWriteLinkReportTable(t *testing.T) {
	var out bytes.Buffer
	err := writeLinkReport(&out, sampleLinkReport(), false, false)

	require.ErrorIs(t, err, ErrBrokenLinks)
	assert.Equal(t, 2, ExitCode(err))
	assert.Contains(t, out.String(), "https://seneca.kz/tour")
	assert.Contains(t, out.String(), "https://seneca.kz/gone")
	assert.Contains(t, out.String(), "2 checked, 1 broken")
}

func TestWriteLinkReportBrokenOnlyJSON(t *testing.T) {
	var out bytes.Buffer
	err := writeLinkReport(&out, sampleLinkReport(), true, true)
	require.ErrorIs(t, err, ErrBrokenLinks)

	var got []reports.LinkResult
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "https://seneca.kz/gone", got[0].URL)
}

func TestWriteLinkReportAllHealthy(t *testing.T) {
	report := sampleLinkReport()
	report.AllChecked, report.Broken = report.AllChecked[:1], nil

	var out bytes.Buffer
	err := writeLinkReport(&out, report, false, false)
	assert.NoError(t, err)
	assert.Equal(t, 0, ExitCode(err))
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 0, ExitCode(nil))
	assert.Equal(t, 1, ExitCode(errors.New("connection refused")))
	assert.Equal(t, 2, ExitCode(fmt.Errorf("check-links: %w", ErrBrokenLinks)))
}
