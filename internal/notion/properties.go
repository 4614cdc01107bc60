package notion

import (
	"time"

	"github.com/jomei/notionapi"

	"github.com/BuzzLyutic/task-sync-api/internal/model"
)

// Property names of the Notion database backing the task board.
const (
	PropName        = "Name"
	PropStatus      = "Status"
	PropPriority    = "Priority"
	PropDescription = "Description"
	PropDueDate     = "Due Date"
)

// TaskProperties maps a task onto the board's page properties.
// Due Date is only sent when the task has one.
func TaskProperties(t model.Task) notionapi.Properties {
	props := notionapi.Properties{
		PropName: notionapi.TitleProperty{
			Title: []notionapi.RichText{textOf(t.Title)},
		},
		PropStatus: notionapi.SelectProperty{
			Select: notionapi.Option{Name: t.Status},
		},
		PropPriority: notionapi.SelectProperty{
			Select: notionapi.Option{Name: t.Priority},
		},
		PropDescription: notionapi.RichTextProperty{
			RichText: []notionapi.RichText{textOf(t.Description)},
		},
	}

	if t.DueDate != nil {
		start := notionapi.Date(*t.DueDate)
		props[PropDueDate] = notionapi.DateProperty{
			Date: &notionapi.DateObject{Start: &start},
		}
	}
	return props
}

func textOf(s string) notionapi.RichText {
	return notionapi.RichText{Text: &notionapi.Text{Content: s}}
}

// ParsePage reads task fields from a page. Every field falls back to its
// default independently, so a malformed property never rejects the page.
func ParsePage(page notionapi.Page) model.RemotePage {
	props := page.Properties
	rp := model.RemotePage{
		NotionID:    page.ID.String(),
		Title:       titleOf(props[PropName]),
		Description: richTextOf(props[PropDescription]),
		Status:      selectOf(props[PropStatus]),
		Priority:    selectOf(props[PropPriority]),
		DueDate:     dateOf(props[PropDueDate]),
	}

	if rp.Status == "" {
		rp.Status = model.StatusTodo
	}
	if rp.Priority == "" {
		rp.Priority = model.PriorityMedium
	}
	return rp
}

func titleOf(p notionapi.Property) string {
	switch v := p.(type) {
	case *notionapi.TitleProperty:
		if v != nil {
			return firstText(v.Title)
		}
	case notionapi.TitleProperty:
		return firstText(v.Title)
	}
	return ""
}

func richTextOf(p notionapi.Property) string {
	switch v := p.(type) {
	case *notionapi.RichTextProperty:
		if v != nil {
			return firstText(v.RichText)
		}
	case notionapi.RichTextProperty:
		return firstText(v.RichText)
	}
	return ""
}

func selectOf(p notionapi.Property) string {
	switch v := p.(type) {
	case *notionapi.SelectProperty:
		if v != nil {
			return v.Select.Name
		}
	case notionapi.SelectProperty:
		return v.Select.Name
	}
	return ""
}

func dateOf(p notionapi.Property) *time.Time {
	var obj *notionapi.DateObject
	switch v := p.(type) {
	case *notionapi.DateProperty:
		if v != nil {
			obj = v.Date
		}
	case notionapi.DateProperty:
		obj = v.Date
	}

	if obj == nil || obj.Start == nil {
		return nil
	}
	t := time.Time(*obj.Start)
	if t.IsZero() {
		return nil
	}
	return &t
}

func firstText(rt []notionapi.RichText) string {
	if len(rt) == 0 {
		return ""
	}
	if rt[0].Text != nil {
		return rt[0].Text.Content
	}
	return rt[0].PlainText
}
