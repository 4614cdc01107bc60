package notion

import (
	"context"
	"testing"
	"time"

	"github.com/jomei/notionapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/task-sync-api/internal/model"
	"github.com/BuzzLyutic/task-sync-api/internal/notion/notiontest"
)

func setupClient(t *testing.T) (*Client, *notiontest.Server) {
	t.Helper()
	srv := notiontest.NewServer()
	t.Cleanup(srv.Close)
	return NewWithHTTPClient("secret", "db-1", srv.HTTPClient(), zap.NewNop()), srv
}

func TestTaskProperties(t *testing.T) {
	due := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	t.Run("all fields", func(t *testing.T) {
		props := TaskProperties(model.Task{
			Title:       "Write release notes",
			Description: "first draft",
			Status:      model.StatusTodo,
			Priority:    model.PriorityHigh,
			DueDate:     &due,
		})

		require.Len(t, props, 5)
		assert.Equal(t, "Write release notes", props[PropName].(notionapi.TitleProperty).Title[0].Text.Content)
		assert.Equal(t, "Todo", props[PropStatus].(notionapi.SelectProperty).Select.Name)
		assert.Equal(t, "High", props[PropPriority].(notionapi.SelectProperty).Select.Name)
		assert.Equal(t, "first draft", props[PropDescription].(notionapi.RichTextProperty).RichText[0].Text.Content)
		assert.Equal(t, due, time.Time(*props[PropDueDate].(notionapi.DateProperty).Date.Start))
	})

	t.Run("no due date", func(t *testing.T) {
		props := TaskProperties(model.Task{Title: "x", Status: "Todo", Priority: "Low"})
		assert.NotContains(t, props, PropDueDate)
		assert.Contains(t, props, PropDescription)
	})
}

func TestParsePage_Defaults(t *testing.T) {
	due := notionapi.Date(time.Date(2025, 5, 4, 0, 0, 0, 0, time.UTC))

	tests := []struct {
		name  string
		props notionapi.Properties
		want  model.RemotePage
	}{
		{
			name:  "empty page",
			props: notionapi.Properties{},
			want:  model.RemotePage{NotionID: "p1", Status: "Todo", Priority: "Medium"},
		},
		{
			name: "all fields",
			props: notionapi.Properties{
				PropName:        &notionapi.TitleProperty{Title: []notionapi.RichText{{Text: &notionapi.Text{Content: "T"}}}},
				PropDescription: &notionapi.RichTextProperty{RichText: []notionapi.RichText{{Text: &notionapi.Text{Content: "D"}}}},
				PropStatus:      &notionapi.SelectProperty{Select: notionapi.Option{Name: "Done"}},
				PropPriority:    &notionapi.SelectProperty{Select: notionapi.Option{Name: "Low"}},
				PropDueDate:     &notionapi.DateProperty{Date: &notionapi.DateObject{Start: &due}},
			},
			want: model.RemotePage{
				NotionID: "p1", Title: "T", Description: "D", Status: "Done", Priority: "Low",
				DueDate: func() *time.Time { d := time.Time(due); return &d }(),
			},
		},
		{
			name: "empty values fall back",
			props: notionapi.Properties{
				PropName:        &notionapi.TitleProperty{},
				PropDescription: &notionapi.RichTextProperty{},
				PropStatus:      &notionapi.SelectProperty{},
				PropDueDate:     &notionapi.DateProperty{},
			},
			want: model.RemotePage{NotionID: "p1", Status: "Todo", Priority: "Medium"},
		},
		{
			name: "wrong property types fall back per field",
			props: notionapi.Properties{
				PropName:     &notionapi.RichTextProperty{RichText: []notionapi.RichText{{Text: &notionapi.Text{Content: "nope"}}}},
				PropStatus:   &notionapi.TitleProperty{},
				PropPriority: &notionapi.SelectProperty{Select: notionapi.Option{Name: "High"}},
			},
			want: model.RemotePage{NotionID: "p1", Status: "Todo", Priority: "High"},
		},
		{
			name: "plain text when text object missing",
			props: notionapi.Properties{
				PropName: &notionapi.TitleProperty{Title: []notionapi.RichText{{PlainText: "plain"}}},
			},
			want: model.RemotePage{NotionID: "p1", Title: "plain", Status: "Todo", Priority: "Medium"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParsePage(notionapi.Page{ID: "p1", Properties: tt.props})
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClient_PushCreate(t *testing.T) {
	client, srv := setupClient(t)

	id, err := client.Push(context.Background(), model.Task{
		ID: "t1", Title: "Write release notes", Status: "Todo", Priority: "High",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.Equal(t, 1, srv.Creates)
	assert.Equal(t, 0, srv.Updates)

	_, ok := srv.Page(id)
	assert.True(t, ok)
}

func TestClient_PushUpdate(t *testing.T) {
	client, srv := setupClient(t)
	pageID := srv.AddPage(map[string]any{PropName: notiontest.Title("old")})

	id, err := client.Push(context.Background(), model.Task{
		ID: "t1", Title: "new", Status: "Done", Priority: "Low", NotionID: &pageID,
	})
	require.NoError(t, err)
	assert.Equal(t, pageID, id)
	assert.Equal(t, 0, srv.Creates)
	assert.Equal(t, 1, srv.Updates)

	pages, err := client.PullAll(context.Background())
	require.NoError(t, err)
	require.Len(t, pages, 1)
	assert.Equal(t, "new", pages[0].Title)
	assert.Equal(t, "Done", pages[0].Status)
}

func TestClient_PushFailure(t *testing.T) {
	client, srv := setupClient(t)
	srv.FailCreate = true

	id, err := client.Push(context.Background(), model.Task{ID: "t1", Title: "x"})
	assert.Error(t, err)
	assert.Empty(t, id)
}

func TestClient_PullAll(t *testing.T) {
	client, srv := setupClient(t)
	first := srv.AddPage(map[string]any{
		PropName:        notiontest.Title("Remote one"),
		PropStatus:      notiontest.Select("In Progress"),
		PropPriority:    notiontest.Select("High"),
		PropDescription: notiontest.RichText("from notion"),
		PropDueDate:     notiontest.Date("2025-06-01"),
	})
	second := srv.AddPage(map[string]any{
		PropName:     notiontest.Title("Remote two"),
		PropStatus:   notiontest.EmptySelect(),
		PropPriority: notiontest.EmptySelect(),
	})

	pages, err := client.PullAll(context.Background())
	require.NoError(t, err)
	require.Len(t, pages, 2)

	assert.Equal(t, first, pages[0].NotionID)
	assert.Equal(t, "Remote one", pages[0].Title)
	assert.Equal(t, "In Progress", pages[0].Status)
	assert.Equal(t, "High", pages[0].Priority)
	assert.Equal(t, "from notion", pages[0].Description)
	require.NotNil(t, pages[0].DueDate)
	assert.Equal(t, "2025-06-01", pages[0].DueDate.Format("2006-01-02"))

	assert.Equal(t, second, pages[1].NotionID)
	assert.Equal(t, "Todo", pages[1].Status)
	assert.Equal(t, "Medium", pages[1].Priority)
	assert.Empty(t, pages[1].Description)
	assert.Nil(t, pages[1].DueDate)
}

func TestClient_PullAllFailure(t *testing.T) {
	client, srv := setupClient(t)
	srv.FailQuery = true

	pages, err := client.PullAll(context.Background())
	assert.Error(t, err)
	assert.Nil(t, pages)
}

func TestClient_PullAllMalformedPropertyFallsBack(t *testing.T) {
	client, srv := setupClient(t)
	broken := srv.AddPage(map[string]any{
		PropName:     notiontest.Title("Still imported"),
		PropStatus:   notiontest.Select("Done"),
		PropDueDate:  notiontest.Date("not-a-date"),
		"Extra":      notiontest.Date("not-a-date"),
		PropPriority: map[string]any{"type": "select", "select": "High"},
	})
	fine := srv.AddPage(map[string]any{PropName: notiontest.Title("Untouched")})

	pages, err := client.PullAll(context.Background())
	require.NoError(t, err)
	require.Len(t, pages, 2)

	assert.Equal(t, broken, pages[0].NotionID)
	assert.Equal(t, "Still imported", pages[0].Title)
	assert.Equal(t, "Done", pages[0].Status)
	assert.Equal(t, "Medium", pages[0].Priority)
	assert.Nil(t, pages[0].DueDate)

	assert.Equal(t, fine, pages[1].NotionID)
	assert.Equal(t, "Untouched", pages[1].Title)
}

func TestClient_PullAllReportsAPIError(t *testing.T) {
	client, srv := setupClient(t)
	srv.FailQuery = true

	_, err := client.PullAll(context.Background())

	var apiErr *notionapi.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "API token is invalid.", apiErr.Message)
}
