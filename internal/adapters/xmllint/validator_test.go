package xmllint_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/markup/internal/adapters/xmllint"
	"go.trai.ch/markup/internal/core/domain"
	"go.trai.ch/markup/internal/core/ports"
	"go.trai.ch/markup/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

const validXHTML = `<!DOCTYPE html PUBLIC "-//W3C//DTD XHTML 1.0 Transitional//EN" ` +
	`"http://www.w3.org/TR/xhtml1/DTD/xhtml1-transitional.dtd">` +
	`<html xmlns="http://www.w3.org/1999/xhtml" xml:lang="en" lang="en">` +
	`<head><title></title></head><body></body></html>`

type fixture struct {
	ctrl    *gomock.Controller
	runner  *mocks.MockCommandRunner
	catalog *mocks.MockCatalogManager
	fetcher *mocks.MockResourceFetcher
	logger  *mocks.MockLogger
	opts    domain.Options
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	f := &fixture{
		ctrl:    ctrl,
		runner:  mocks.NewMockCommandRunner(ctrl),
		catalog: mocks.NewMockCatalogManager(ctrl),
		fetcher: mocks.NewMockResourceFetcher(ctrl),
		logger:  mocks.NewMockLogger(ctrl),
		opts: domain.Options{
			CatalogPath: t.TempDir(),
			Service:     domain.ServiceLocal,
			DTDValidate: true,
		},
	}
	f.catalog.EXPECT().Ensure(gomock.Any(), f.opts.CatalogPath).Return(nil).AnyTimes()
	return f
}

func (f *fixture) validator(t *testing.T) *xmllint.Validator {
	t.Helper()
	return xmllint.NewValidator(f.runner, f.catalog, f.fetcher, f.logger, "xmllint").WithTempDir(t.TempDir())
}

// respond builds a runner reply; lines may reference the temp file through %[1]s.
func respond(exitCode int, lines ...string) func(context.Context, ports.Command) (*ports.Output, error) {
	return func(_ context.Context, cmd ports.Command) (*ports.Output, error) {
		tmp := cmd.Args[len(cmd.Args)-1]
		out := &ports.Output{ExitCode: exitCode}
		for _, l := range lines {
			out.Lines = append(out.Lines, strings.ReplaceAll(l, "%[1]s", tmp))
		}
		return out, nil
	}
}

func TestValidator_ValidXHTML(t *testing.T) {
	f := newFixture(t)

	f.runner.EXPECT().Run(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, cmd ports.Command) (*ports.Output, error) {
			assert.Equal(t, "xmllint", cmd.Name)
			assert.Equal(t, []string{"--nonet", "--noout", "--valid"}, cmd.Args[:3])
			assert.Contains(t, cmd.Env, "XML_CATALOG_FILES="+domain.CatalogFile(f.opts.CatalogPath))
			assert.Contains(t, cmd.Env, "XML_DEBUG_CATALOG=1")

			data, err := os.ReadFile(cmd.Args[3])
			require.NoError(t, err)
			assert.Equal(t, validXHTML, string(data))
			return &ports.Output{}, nil
		})

	result, err := f.validator(t).Validate(context.Background(), validXHTML, f.opts)
	require.NoError(t, err)
	assert.Empty(t, result)
}

func TestValidator_NoDTDValidationLoadsDTDOnly(t *testing.T) {
	f := newFixture(t)
	f.opts.DTDValidate = false

	f.runner.EXPECT().Run(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, cmd ports.Command) (*ports.Output, error) {
			assert.Equal(t, "--loaddtd", cmd.Args[2])
			return &ports.Output{}, nil
		})

	result, err := f.validator(t).Validate(context.Background(), validXHTML, f.opts)
	require.NoError(t, err)
	assert.True(t, result.Valid())
}

func TestValidator_InvalidFragment(t *testing.T) {
	f := newFixture(t)

	f.runner.EXPECT().Run(gomock.Any(), gomock.Any()).
		DoAndReturn(respond(1,
			"%[1]s:1: parser error : Premature end of data in tag foo line 1",
			"<foo>",
			"     ^",
			"%[1]s:1: validity warning : ignored",
		))

	result, err := f.validator(t).Validate(context.Background(), "<foo>", f.opts)
	require.NoError(t, err)
	require.Len(t, result, 1)

	assert.Equal(t, 1, result[0].Line)
	assert.Equal(t, "parser error : Premature end of data in tag foo line 1", result[0].Message)
	assert.Equal(t, []domain.ContextLine{{Number: 1, Text: "<foo>"}}, result[0].Context)
}

func TestValidator_NonZeroExitWithoutDiagnostics(t *testing.T) {
	f := newFixture(t)

	f.runner.EXPECT().Run(gomock.Any(), gomock.Any()).DoAndReturn(respond(3, "out of memory"))

	result, err := f.validator(t).Validate(context.Background(), "<foo/>", f.opts)
	require.NoError(t, err)
	assert.Equal(t, domain.Result{{Line: 0, Message: "validator exited with status 3"}}, result)
}

func TestValidator_ToolCannotStart(t *testing.T) {
	f := newFixture(t)

	f.runner.EXPECT().Run(gomock.Any(), gomock.Any()).Return(nil, domain.ErrCommandStartFailed)

	result, err := f.validator(t).Validate(context.Background(), validXHTML, f.opts)
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, 0, result[0].Line)
	assert.Contains(t, result[0].Message, "could not run xmllint")
}

func TestValidator_CancelledContext(t *testing.T) {
	f := newFixture(t)

	ctx, cancel := context.WithCancel(context.Background())
	f.runner.EXPECT().Run(gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, ports.Command) (*ports.Output, error) {
			cancel()
			return nil, domain.ErrCommandFailed
		})

	result, err := f.validator(t).Validate(ctx, validXHTML, f.opts)
	require.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, result)
}

func TestValidator_LoaderWarningIsIgnored(t *testing.T) {
	f := newFixture(t)
	f.opts.DTDValidate = false

	f.runner.EXPECT().Run(gomock.Any(), gomock.Any()).
		DoAndReturn(respond(0,
			`%[1]s:1: warning: failed to load external entity "http://www.w3.org/TR/xhtml1/DTD/xhtml1-strict.dtd"`,
		))

	result, err := f.validator(t).Validate(context.Background(), validXHTML, f.opts)
	require.NoError(t, err)
	assert.True(t, result.Valid())
}

func TestValidator_CatalogSetupFailureIsFatal(t *testing.T) {
	ctrl := gomock.NewController(t)
	catalog := mocks.NewMockCatalogManager(ctrl)
	catalog.EXPECT().Ensure(gomock.Any(), gomock.Any()).Return(domain.ErrCatalogSetup)

	v := xmllint.NewValidator(mocks.NewMockCommandRunner(ctrl), catalog, mocks.NewMockResourceFetcher(ctrl),
		mocks.NewMockLogger(ctrl), "")

	_, err := v.Validate(context.Background(), validXHTML, domain.DefaultOptions())
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrCatalogSetup.Error())
}

func TestValidator_TwoMissingDTDsFetchedAndRegisteredWithOneRerun(t *testing.T) {
	f := newFixture(t)

	const (
		strictPublic = "-//W3C//DTD XHTML 1.0 Strict//EN"
		strictSystem = "http://www.w3.org/TR/xhtml1/DTD/xhtml1-strict.dtd"
		latinPublic  = "-//W3C//ENTITIES Latin 1 for XHTML//EN"
	)

	gomock.InOrder(
		f.runner.EXPECT().Run(gomock.Any(), gomock.Any()).DoAndReturn(respond(4,
			"Resolve: pubID "+strictPublic+" sysID "+strictSystem,
			"Resolve: pubID "+latinPublic+" sysID xhtml-lat1.ent",
			"%[1]s:1: validity error : Validation failed: no DTD found !",
		)),
		f.runner.EXPECT().Run(gomock.Any(), gomock.Any()).DoAndReturn(respond(0)),
	)

	unlocked := false
	f.catalog.EXPECT().Lock(gomock.Any(), f.opts.CatalogPath).Return(func() { unlocked = true }, nil).Times(1)

	f.fetcher.EXPECT().Fetch(gomock.Any(), strictSystem).Return([]byte("<!-- strict -->"), nil)
	f.fetcher.EXPECT().Fetch(gomock.Any(), "http://www.w3.org/TR/xhtml1/DTD/xhtml-lat1.ent").
		Return([]byte("<!-- lat1 -->"), nil)

	f.catalog.EXPECT().Add(gomock.Any(), f.opts.CatalogPath, domain.CatalogEntry{
		PublicID:  strictPublic,
		SystemID:  strictSystem,
		LocalPath: filepath.Join(f.opts.CatalogPath, "xhtml1-strict.dtd"),
	}).Return(nil)
	f.catalog.EXPECT().Add(gomock.Any(), f.opts.CatalogPath, domain.CatalogEntry{
		PublicID:  latinPublic,
		SystemID:  "xhtml-lat1.ent",
		LocalPath: filepath.Join(f.opts.CatalogPath, "xhtml-lat1.ent"),
	}).Return(nil)

	result, err := f.validator(t).Validate(context.Background(), validXHTML, f.opts)
	require.NoError(t, err)
	assert.Empty(t, result)
	assert.True(t, unlocked)

	data, err := os.ReadFile(filepath.Join(f.opts.CatalogPath, "xhtml1-strict.dtd"))
	require.NoError(t, err)
	assert.Equal(t, "<!-- strict -->", string(data))
	assert.FileExists(t, filepath.Join(f.opts.CatalogPath, "xhtml-lat1.ent"))
}

func TestValidator_PassCapReached(t *testing.T) {
	f := newFixture(t)

	pass := 0
	f.runner.EXPECT().Run(gomock.Any(), gomock.Any()).Times(xmllint.MaxPasses).
		DoAndReturn(func(ctx context.Context, cmd ports.Command) (*ports.Output, error) {
			pass++
			line := fmt.Sprintf("Resolve: pubID (null) sysID http://example.org/dtd/part-%d.ent", pass)
			return respond(1, line, "%[1]s:2: validity error : still incomplete")(ctx, cmd)
		})
	f.catalog.EXPECT().Lock(gomock.Any(), gomock.Any()).Return(func() {}, nil).Times(xmllint.MaxPasses)
	f.fetcher.EXPECT().Fetch(gomock.Any(), gomock.Any()).Return([]byte("x"), nil).Times(xmllint.MaxPasses)
	f.catalog.EXPECT().Add(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).Times(xmllint.MaxPasses)
	f.logger.EXPECT().Warn(gomock.Any()).Times(1)

	result, err := f.validator(t).Validate(context.Background(), "<a>\n<b/>\n</a>", f.opts)
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, 2, result[0].Line)
}

func TestValidator_FetchFailureIsNotRetried(t *testing.T) {
	f := newFixture(t)

	f.runner.EXPECT().Run(gomock.Any(), gomock.Any()).Times(1).DoAndReturn(respond(1,
		"Resolve: pubID (null) sysID http://example.org/missing.dtd",
		"%[1]s:1: validity error : Validation failed: no DTD found !",
	))
	f.catalog.EXPECT().Lock(gomock.Any(), gomock.Any()).Return(func() {}, nil)
	f.fetcher.EXPECT().Fetch(gomock.Any(), "http://example.org/missing.dtd").Return(nil, domain.ErrResourceFetchFailed)
	f.logger.EXPECT().Warn(gomock.Any())

	result, err := f.validator(t).Validate(context.Background(), "<foo/>", f.opts)
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Contains(t, result[0].Message, "no DTD found")
}

func TestValidator_RegistrationFailureIsFatal(t *testing.T) {
	f := newFixture(t)

	f.runner.EXPECT().Run(gomock.Any(), gomock.Any()).
		DoAndReturn(respond(1, "Resolve: pubID (null) sysID http://example.org/x.dtd"))
	f.catalog.EXPECT().Lock(gomock.Any(), gomock.Any()).Return(func() {}, nil)
	f.fetcher.EXPECT().Fetch(gomock.Any(), gomock.Any()).Return([]byte("x"), nil)
	f.catalog.EXPECT().Add(gomock.Any(), gomock.Any(), gomock.Any()).Return(domain.ErrCatalogRegister)

	_, err := f.validator(t).Validate(context.Background(), "<foo/>", f.opts)
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrCatalogRegister.Error())
	assert.NoFileExists(t, filepath.Join(f.opts.CatalogPath, "x.dtd"))
}

func TestValidator_ExistingCatalogEntriesAreNotFetched(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, os.WriteFile(filepath.Join(f.opts.CatalogPath, "x.dtd"), []byte("x"), domain.PrivateFilePerm))

	f.runner.EXPECT().Run(gomock.Any(), gomock.Any()).
		DoAndReturn(respond(0, "Resolve: pubID (null) sysID http://example.org/x.dtd"))

	result, err := f.validator(t).Validate(context.Background(), "<foo/>", f.opts)
	require.NoError(t, err)
	assert.Empty(t, result)
}
