package service

import (
	"html"
	"strings"

	"anoa.com/hennahub/internal/entity"
	"anoa.com/hennahub/internal/logger"
	"github.com/google/uuid"
	"github.com/meilisearch/meilisearch-go"
	"github.com/microcosm-cc/bluemonday"
)

const designsIndex = "designs"

// DesignIndexer keeps the public design search index in step with moderation.
type DesignIndexer interface {
	IndexDesign(design *entity.Design) error
	DeleteDesign(id uuid.UUID) error
}

type meiliIndexer struct {
	client    meilisearch.ServiceManager
	sanitizer *bluemonday.Policy
}

// NewDesignIndexer returns a no-op indexer when client is nil.
func NewDesignIndexer(client meilisearch.ServiceManager) DesignIndexer {
	if client == nil {
		return noopIndexer{}
	}
	s := &meiliIndexer{client: client, sanitizer: bluemonday.StrictPolicy()}
	s.initIndex()
	return s
}

func (s *meiliIndexer) initIndex() {
	filterable := []any{"category_id", "designer_id"}
	if _, err := s.client.Index(designsIndex).UpdateFilterableAttributes(&filterable); err != nil {
		logger.Warn("failed to update designs filterable attributes", "error", err)
	}

	sortable := []string{"created_at", "likes_count", "views_count"}
	if _, err := s.client.Index(designsIndex).UpdateSortableAttributes(&sortable); err != nil {
		logger.Warn("failed to update designs sortable attributes", "error", err)
	}
}

type designDoc struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	ImageURL    string   `json:"image"`
	DesignerID  string   `json:"designer_id"`
	Designer    string   `json:"designer"`
	CategoryID  string   `json:"category_id"`
	Category    string   `json:"category"`
	LikesCount  int      `json:"likes_count"`
	ViewsCount  int      `json:"views_count"`
	CreatedAt   int64    `json:"created_at"`
}

// CleanText strips markup and collapses whitespace.
func CleanText(p *bluemonday.Policy, content string) string {
	content = strings.ReplaceAll(content, "</p>", " ")
	content = strings.ReplaceAll(content, "<br>", " ")
	content = html.UnescapeString(p.Sanitize(content))
	return strings.Join(strings.Fields(content), " ")
}

func splitTags(tags string) []string {
	out := []string{}
	for _, t := range strings.Split(tags, ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func (s *meiliIndexer) IndexDesign(design *entity.Design) error {
	doc := designDoc{
		ID:          design.ID.String(),
		Title:       CleanText(s.sanitizer, design.Title),
		Description: CleanText(s.sanitizer, design.Description),
		Tags:        splitTags(design.Tags),
		ImageURL:    design.ImageURL,
		DesignerID:  design.DesignerID.String(),
		LikesCount:  design.LikesCount,
		ViewsCount:  design.ViewsCount,
		CreatedAt:   design.CreatedAt.Unix(),
	}
	if design.Designer != nil {
		doc.Designer = design.Designer.DisplayName()
	}
	if design.CategoryID != nil {
		doc.CategoryID = design.CategoryID.String()
	}
	if design.Category != nil {
		doc.Category = design.Category.Name
	}

	pk := "id"
	task, err := s.client.Index(designsIndex).AddDocuments([]designDoc{doc}, &pk)
	if err != nil {
		return err
	}
	logger.Debug("indexed design", "design_id", design.ID, "task_uid", task.TaskUID)
	return nil
}

func (s *meiliIndexer) DeleteDesign(id uuid.UUID) error {
	_, err := s.client.Index(designsIndex).DeleteDocument(id.String())
	return err
}

type noopIndexer struct{}

func (noopIndexer) IndexDesign(*entity.Design) error { return nil }

func (noopIndexer) DeleteDesign(uuid.UUID) error { return nil }
