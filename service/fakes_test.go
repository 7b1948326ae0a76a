package service

import (
	"context"
	"fmt"
	"time"

	"review-processor/domain"
	"review-processor/models"
)

// Hand-written fakes shared by the service tests.

type fakeUpstream struct {
	readyErr   error
	details    *models.ProductDetails
	detailsErr error

	pages    [][]models.RawReview
	pageErrs map[int]error

	pagesRequested []int
}

func (f *fakeUpstream) Ready() error { return f.readyErr }

func (f *fakeUpstream) ProductDetails(_ context.Context, _ string) (*models.ProductDetails, error) {
	if f.detailsErr != nil {
		return nil, f.detailsErr
	}
	return f.details, nil
}

func (f *fakeUpstream) ReviewPage(_ context.Context, _ string, page int) ([]models.RawReview, error) {
	f.pagesRequested = append(f.pagesRequested, page)
	if err, ok := f.pageErrs[page]; ok {
		return nil, err
	}
	if page > len(f.pages) {
		return nil, nil
	}
	return f.pages[page-1], nil
}

type fakeAnalysisClient struct {
	response string
	err      error
	prompts  []string
}

func (f *fakeAnalysisClient) Analyze(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

type fakeSubmissionRepo struct {
	submissions map[string]*models.Submission

	statusUpdates    map[string][]domain.SubmissionStatus
	failedMessages   map[string]string
	detailsSaved     map[string]*models.ProductDetails
	refreshCompleted map[string]time.Time
	clonesCreated    []string

	cloneErr error
}

func newFakeSubmissionRepo(subs ...*models.Submission) *fakeSubmissionRepo {
	repo := &fakeSubmissionRepo{
		submissions:      map[string]*models.Submission{},
		statusUpdates:    map[string][]domain.SubmissionStatus{},
		failedMessages:   map[string]string{},
		detailsSaved:     map[string]*models.ProductDetails{},
		refreshCompleted: map[string]time.Time{},
	}
	for _, s := range subs {
		repo.submissions[s.ID] = s
	}
	return repo
}

func (f *fakeSubmissionRepo) FindByID(_ context.Context, id string) (*models.Submission, error) {
	s, ok := f.submissions[id]
	if !ok {
		return nil, domain.ErrSubmissionNotFound
	}
	copied := *s
	return &copied, nil
}

func (f *fakeSubmissionRepo) FindPending(_ context.Context, limit int) ([]*models.Submission, error) {
	var pending []*models.Submission
	for _, s := range f.submissions {
		if s.Status == domain.StatusPending && len(pending) < limit {
			pending = append(pending, s)
		}
	}
	return pending, nil
}

func (f *fakeSubmissionRepo) UpdateStatus(_ context.Context, id string, status domain.SubmissionStatus) error {
	f.statusUpdates[id] = append(f.statusUpdates[id], status)
	if s, ok := f.submissions[id]; ok {
		s.Status = status
	}
	return nil
}

func (f *fakeSubmissionRepo) MarkFailed(_ context.Context, id string, message string) error {
	f.failedMessages[id] = domain.TruncateError(message)
	if s, ok := f.submissions[id]; ok {
		s.Status = domain.StatusFailed
	}
	return nil
}

func (f *fakeSubmissionRepo) SaveProductDetails(_ context.Context, id string, _ domain.Platform, details *models.ProductDetails) error {
	f.detailsSaved[id] = details
	if s, ok := f.submissions[id]; ok {
		s.Status = domain.StatusDetailsFetched
		if details != nil {
			if details.Title != "" {
				title := details.Title
				s.ProductTitle = &title
			}
			if details.Brand != "" {
				brand := details.Brand
				s.BrandName = &brand
			}
			if details.ASIN != "" {
				asin := details.ASIN
				s.ASIN = &asin
			}
		}
	}
	return nil
}

func (f *fakeSubmissionRepo) CompleteRefreshParent(_ context.Context, parentID string, refreshedAt time.Time) error {
	f.refreshCompleted[parentID] = refreshedAt
	if s, ok := f.submissions[parentID]; ok {
		s.Status = domain.StatusCompleted
		s.LastRefreshedAt = &refreshedAt
	}
	return nil
}

func (f *fakeSubmissionRepo) CreateClone(_ context.Context, origin *models.Submission, userID string) (string, error) {
	if f.cloneErr != nil {
		return "", f.cloneErr
	}
	id := fmt.Sprintf("clone-%d", len(f.clonesCreated)+1)
	f.clonesCreated = append(f.clonesCreated, origin.ID)
	f.submissions[id] = &models.Submission{
		ID:                id,
		UserID:            userID,
		URL:               origin.URL,
		Status:            domain.StatusPending,
		RecurringParentID: &origin.ID,
	}
	return id, nil
}

type fakeReviewRepo struct {
	stored    []*models.Review
	insertErr func(review *models.Review) error
	findErr   error
}

func (f *fakeReviewRepo) Insert(_ context.Context, review *models.Review) error {
	if f.insertErr != nil {
		if err := f.insertErr(review); err != nil {
			return err
		}
	}
	f.stored = append(f.stored, review)
	return nil
}

func (f *fakeReviewRepo) FindBySubmission(_ context.Context, submissionID string) ([]*models.Review, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	var out []*models.Review
	for _, r := range f.stored {
		if r.SubmissionID == submissionID {
			out = append(out, r)
		}
	}
	return out, nil
}

type fakeAnalysisRepo struct {
	latest  map[string]*models.Analysis
	created []*models.Analysis
	updated []*models.Analysis
}

func newFakeAnalysisRepo() *fakeAnalysisRepo {
	return &fakeAnalysisRepo{latest: map[string]*models.Analysis{}}
}

func (f *fakeAnalysisRepo) Create(_ context.Context, analysis *models.Analysis) error {
	f.created = append(f.created, analysis)
	f.latest[analysis.SubmissionID] = analysis
	return nil
}

func (f *fakeAnalysisRepo) Update(_ context.Context, analysis *models.Analysis) error {
	f.updated = append(f.updated, analysis)
	f.latest[analysis.SubmissionID] = analysis
	return nil
}

func (f *fakeAnalysisRepo) FindLatestBySubmission(_ context.Context, submissionID string) (*models.Analysis, error) {
	a, ok := f.latest[submissionID]
	if !ok {
		return nil, domain.ErrAnalysisNotFound
	}
	return a, nil
}

type fakeRecurringRepo struct {
	due     []*models.RecurringAnalysis
	findErr error

	runTimes map[string][2]time.Time
}

func newFakeRecurringRepo(due ...*models.RecurringAnalysis) *fakeRecurringRepo {
	return &fakeRecurringRepo{due: due, runTimes: map[string][2]time.Time{}}
}

func (f *fakeRecurringRepo) FindDue(_ context.Context, _, _ time.Time) ([]*models.RecurringAnalysis, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.due, nil
}

func (f *fakeRecurringRepo) UpdateRunTimes(_ context.Context, id string, lastRun, nextRun time.Time) error {
	f.runTimes[id] = [2]time.Time{lastRun, nextRun}
	return nil
}
