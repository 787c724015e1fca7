package services

import (
	gocontext "context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/apex-mentoria/apex_api/model"
	"github.com/apex-mentoria/apex_api/shared"
)

func newTestSqlService(t *testing.T) *SqlService {
	t.Helper()

	svc := &SqlService{
		driver:   "sqlite",
		database: filepath.Join(t.TempDir(), "test.db"),
	}
	require.NoError(t, svc.open())
	require.NoError(t, svc.migrate())

	t.Cleanup(svc.Shutdown)
	return svc
}

func newTestProgressionService(t *testing.T, sqlSvc *SqlService) *ProgressionService {
	t.Helper()
	return &ProgressionService{sqlSvc: sqlSvc}
}

func createTestMentee(t *testing.T, sqlSvc *SqlService, name string) *model.Mentee {
	t.Helper()

	mentee, err := sqlSvc.CreateMentee(&model.Mentee{
		Name:         name,
		CurrentStage: shared.StageOnboarding,
	})
	require.NoError(t, err)
	return mentee
}

type pushCall struct {
	tokens []string
	title  string
	body   string
	data   map[string]string
}

type fakePushSender struct {
	calls []pushCall
	err   error
}

func (f *fakePushSender) Send(_ gocontext.Context, tokens []string, title, body string, data map[string]string) error {
	if f.err != nil {
		return f.err
	}
	f.calls = append(f.calls, pushCall{tokens: tokens, title: title, body: body, data: data})
	return nil
}
