package sink

import (
	"context"

	"github.com/jomei/notionapi"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/prospector-cli/internal/resilience"
	"github.com/sells-group/prospector-cli/pkg/notion"
)

// NotionSink appends rows as pages of a Notion database with Name (title),
// Industry (rich text), and Website (url) properties. The client throttles
// to Notion's 3 req/s limit; transient API failures are retried per page.
type NotionSink struct {
	client notion.Client
	dbID   string
}

// NewNotion creates a NotionSink writing to the given database.
func NewNotion(client notion.Client, dbID string) *NotionSink {
	return &NotionSink{client: client, dbID: dbID}
}

func (s *NotionSink) Append(ctx context.Context, rows []Row) error {
	cfg := resilience.DefaultRetryConfig()
	cfg.OnRetry = resilience.RetryLogger("notion", "create page")

	for _, row := range rows {
		req := &notionapi.PageCreateRequest{
			Parent: notionapi.Parent{
				Type:       notionapi.ParentTypeDatabaseID,
				DatabaseID: notionapi.DatabaseID(s.dbID),
			},
			Properties: notionapi.Properties{
				"Name": notionapi.TitleProperty{
					Title: []notionapi.RichText{
						{Text: &notionapi.Text{Content: row.Name}},
					},
				},
				"Industry": notionapi.RichTextProperty{
					RichText: []notionapi.RichText{
						{Text: &notionapi.Text{Content: row.Industry}},
					},
				},
				"Website": notionapi.URLProperty{
					URL: row.URL,
				},
			},
		}

		err := resilience.Do(ctx, cfg, func(ctx context.Context) error {
			_, err := s.client.CreatePage(ctx, req)
			return err
		})
		if err != nil {
			return eris.Wrapf(err, "sink: notion append row %q", row.Name)
		}
	}

	zap.L().Info("sink: appended rows to notion",
		zap.Int("count", len(rows)),
		zap.String("database", s.dbID),
	)
	return nil
}
