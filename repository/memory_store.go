package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fcode/course-platform-backend/models"
)

type pairKey struct {
	a, b uuid.UUID
}

// MemoryStore keeps every table in-process. It backs tests and the
// DB_DRIVER=memory mode; data is lost on restart.
type MemoryStore struct {
	mu sync.RWMutex

	users  map[uuid.UUID]models.User
	emails map[string]uuid.UUID

	categories map[uuid.UUID]models.Category

	courses     map[uuid.UUID]models.Course
	courseOrder []uuid.UUID
	chapters    map[uuid.UUID]models.Chapter
	lessons     map[uuid.UUID]models.Lesson

	enrollments     map[pairKey]models.Enrollment // user, course
	enrollmentOrder []pairKey

	progress map[pairKey]models.LessonProgress // user, lesson

	reviews     map[uuid.UUID]models.Review
	reviewOrder []uuid.UUID

	messages []models.ChatMessage
}

// NewMemoryStore initializes an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:       make(map[uuid.UUID]models.User),
		emails:      make(map[string]uuid.UUID),
		categories:  make(map[uuid.UUID]models.Category),
		courses:     make(map[uuid.UUID]models.Course),
		chapters:    make(map[uuid.UUID]models.Chapter),
		lessons:     make(map[uuid.UUID]models.Lesson),
		enrollments: make(map[pairKey]models.Enrollment),
		progress:    make(map[pairKey]models.LessonProgress),
		reviews:     make(map[uuid.UUID]models.Review),
	}
}

func (m *MemoryStore) Ping(ctx context.Context) error { return ctx.Err() }

func newID(id uuid.UUID) uuid.UUID {
	if id == uuid.Nil {
		return uuid.New()
	}
	return id
}

// Users

func (m *MemoryStore) CreateUser(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, taken := m.emails[user.Email]; taken {
		return ErrDuplicate
	}
	user.ID = newID(user.ID)
	if user.Role == "" {
		user.Role = models.RoleStudent
	}
	now := time.Now().UTC()
	user.CreatedAt, user.UpdatedAt = now, now
	m.users[user.ID] = *user
	m.emails[user.Email] = user.ID
	return nil
}

func (m *MemoryStore) GetUserByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (m *MemoryStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.emails[email]
	if !ok {
		return nil, ErrNotFound
	}
	u := m.users[id]
	return &u, nil
}

func (m *MemoryStore) GetUsersByIDs(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[uuid.UUID]models.User, len(ids))
	for _, id := range ids {
		if u, ok := m.users[id]; ok {
			out[id] = u
		}
	}
	return out, nil
}

func (m *MemoryStore) UpdateUser(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[user.ID]
	if !ok {
		return ErrNotFound
	}
	u.FullName = user.FullName
	u.AvatarURL = user.AvatarURL
	u.Bio = user.Bio
	u.UpdatedAt = time.Now().UTC()
	m.users[u.ID] = u
	return nil
}

// Categories

func (m *MemoryStore) CreateCategory(_ context.Context, category *models.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.categories {
		if c.Name == category.Name || c.Slug == category.Slug {
			return ErrDuplicate
		}
	}
	category.ID = newID(category.ID)
	now := time.Now().UTC()
	category.CreatedAt, category.UpdatedAt = now, now
	m.categories[category.ID] = *category
	return nil
}

func (m *MemoryStore) ListCategories(_ context.Context) ([]models.Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.Category, 0, len(m.categories))
	for _, c := range m.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *MemoryStore) GetCategoriesByIDs(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[uuid.UUID]models.Category, len(ids))
	for _, id := range ids {
		if c, ok := m.categories[id]; ok {
			out[id] = c
		}
	}
	return out, nil
}

func (m *MemoryStore) CategoryExists(_ context.Context, id uuid.UUID) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.categories[id]
	return ok, nil
}

// Courses

func (m *MemoryStore) CreateCourse(_ context.Context, course *models.Course, content []ChapterTree) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := checkContentOrder(content); err != nil {
		return err
	}
	course.ID = newID(course.ID)
	if _, exists := m.courses[course.ID]; exists {
		return ErrDuplicate
	}
	now := time.Now().UTC()
	course.CreatedAt, course.UpdatedAt = now, now
	m.courses[course.ID] = *course
	m.courseOrder = append(m.courseOrder, course.ID)
	m.insertContentLocked(course.ID, content)
	return nil
}

func (m *MemoryStore) GetCourse(_ context.Context, id uuid.UUID) (*models.Course, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.courses[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &c, nil
}

func (m *MemoryStore) ListCourses(_ context.Context) ([]models.Course, error) {
	return m.filterCourses(func(models.Course) bool { return true }), nil
}

func (m *MemoryStore) ListCoursesByTeacher(_ context.Context, teacherID uuid.UUID) ([]models.Course, error) {
	return m.filterCourses(func(c models.Course) bool { return c.TeacherID == teacherID }), nil
}

// filterCourses walks insertion order backwards so results are newest first.
func (m *MemoryStore) filterCourses(keep func(models.Course) bool) []models.Course {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.Course, 0, len(m.courseOrder))
	for i := len(m.courseOrder) - 1; i >= 0; i-- {
		if c, ok := m.courses[m.courseOrder[i]]; ok && keep(c) {
			out = append(out, c)
		}
	}
	return out
}

func (m *MemoryStore) ListCoursesByIDs(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Course, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[uuid.UUID]models.Course, len(ids))
	for _, id := range ids {
		if c, ok := m.courses[id]; ok {
			out[id] = c
		}
	}
	return out, nil
}

func (m *MemoryStore) UpdateCourse(_ context.Context, course *models.Course, content []ChapterTree) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.courses[course.ID]
	if !ok {
		return ErrNotFound
	}
	if err := checkContentOrder(content); err != nil {
		return err
	}
	c.Title = course.Title
	c.Description = course.Description
	c.ThumbnailURL = course.ThumbnailURL
	c.Price = course.Price
	c.Level = course.Level
	c.CategoryID = course.CategoryID
	c.UpdatedAt = time.Now().UTC()
	m.courses[c.ID] = c
	if content != nil {
		m.deleteContentLocked(c.ID)
		m.insertContentLocked(c.ID, content)
	}
	return nil
}

func (m *MemoryStore) DeleteCourse(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.courses[id]; !ok {
		return ErrNotFound
	}
	for _, lessonID := range m.deleteContentLocked(id) {
		for k := range m.progress {
			if k.b == lessonID {
				delete(m.progress, k)
			}
		}
	}
	for k := range m.enrollments {
		if k.b == id {
			delete(m.enrollments, k)
		}
	}
	for rid, r := range m.reviews {
		if r.CourseID == id {
			delete(m.reviews, rid)
		}
	}
	delete(m.courses, id)

	m.courseOrder = pruneOrder(m.courseOrder, func(cid uuid.UUID) bool { _, ok := m.courses[cid]; return ok })
	m.enrollmentOrder = pruneOrder(m.enrollmentOrder, func(k pairKey) bool { _, ok := m.enrollments[k]; return ok })
	m.reviewOrder = pruneOrder(m.reviewOrder, func(rid uuid.UUID) bool { _, ok := m.reviews[rid]; return ok })
	return nil
}

// pruneOrder drops keys whose rows are gone, keeping the order of the rest.
func pruneOrder[K comparable](order []K, live func(K) bool) []K {
	kept := order[:0]
	for _, k := range order {
		if live(k) {
			kept = append(kept, k)
		}
	}
	return kept
}

// deleteContentLocked drops chapters and lessons of a course and returns the
// removed lesson IDs.
func (m *MemoryStore) deleteContentLocked(courseID uuid.UUID) []uuid.UUID {
	var removed []uuid.UUID
	for chID, ch := range m.chapters {
		if ch.CourseID != courseID {
			continue
		}
		for lID, l := range m.lessons {
			if l.ChapterID == chID {
				removed = append(removed, lID)
				delete(m.lessons, lID)
			}
		}
		delete(m.chapters, chID)
	}
	return removed
}

func (m *MemoryStore) ListChapters(_ context.Context, courseID uuid.UUID) ([]models.Chapter, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []models.Chapter
	for _, ch := range m.chapters {
		if ch.CourseID == courseID {
			out = append(out, ch)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OrderIndex < out[j].OrderIndex })
	return out, nil
}

func (m *MemoryStore) ListLessons(_ context.Context, chapterIDs []uuid.UUID) ([]models.Lesson, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	wanted := make(map[uuid.UUID]bool, len(chapterIDs))
	for _, id := range chapterIDs {
		wanted[id] = true
	}
	var out []models.Lesson
	for _, l := range m.lessons {
		if wanted[l.ChapterID] {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OrderIndex < out[j].OrderIndex })
	return out, nil
}

func (m *MemoryStore) CountChapters(_ context.Context, courseIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[uuid.UUID]int64, len(courseIDs))
	for _, id := range courseIDs {
		out[id] = 0
	}
	for _, ch := range m.chapters {
		if _, ok := out[ch.CourseID]; ok {
			out[ch.CourseID]++
		}
	}
	return out, nil
}

func (m *MemoryStore) GetChapter(_ context.Context, id uuid.UUID) (*models.Chapter, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ch, ok := m.chapters[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &ch, nil
}

func (m *MemoryStore) GetLesson(_ context.Context, id uuid.UUID) (*models.Lesson, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	l, ok := m.lessons[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &l, nil
}

// checkContentOrder mirrors the unique order_index indexes.
func checkContentOrder(trees []ChapterTree) error {
	chapterOrders := make(map[int]bool, len(trees))
	for _, t := range trees {
		if chapterOrders[t.Chapter.OrderIndex] {
			return ErrDuplicate
		}
		chapterOrders[t.Chapter.OrderIndex] = true
		lessonOrders := make(map[int]bool, len(t.Lessons))
		for _, l := range t.Lessons {
			if lessonOrders[l.OrderIndex] {
				return ErrDuplicate
			}
			lessonOrders[l.OrderIndex] = true
		}
	}
	return nil
}

func (m *MemoryStore) insertContentLocked(courseID uuid.UUID, trees []ChapterTree) {
	for i := range trees {
		ch := &trees[i].Chapter
		ch.ID = uuid.New()
		ch.CourseID = courseID
		m.chapters[ch.ID] = *ch
		for j := range trees[i].Lessons {
			l := &trees[i].Lessons[j]
			l.ID = uuid.New()
			l.ChapterID = ch.ID
			m.lessons[l.ID] = *l
		}
	}
}

// Enrollments

func (m *MemoryStore) CreateEnrollment(_ context.Context, enrollment *models.Enrollment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := pairKey{enrollment.UserID, enrollment.CourseID}
	if _, exists := m.enrollments[key]; exists {
		return ErrDuplicate
	}
	enrollment.ID = newID(enrollment.ID)
	enrollment.CreatedAt = time.Now().UTC()
	m.enrollments[key] = *enrollment
	m.enrollmentOrder = append(m.enrollmentOrder, key)
	return nil
}

func (m *MemoryStore) GetEnrollment(_ context.Context, userID, courseID uuid.UUID) (*models.Enrollment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.enrollments[pairKey{userID, courseID}]
	if !ok {
		return nil, ErrNotFound
	}
	return &e, nil
}

func (m *MemoryStore) ListEnrollmentsByUser(_ context.Context, userID uuid.UUID) ([]models.Enrollment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []models.Enrollment
	for i := len(m.enrollmentOrder) - 1; i >= 0; i-- {
		key := m.enrollmentOrder[i]
		if key.a != userID {
			continue
		}
		if e, ok := m.enrollments[key]; ok {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *MemoryStore) CountEnrollments(_ context.Context, courseIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[uuid.UUID]int64, len(courseIDs))
	for _, id := range courseIDs {
		out[id] = 0
	}
	for key := range m.enrollments {
		if _, ok := out[key.b]; ok {
			out[key.b]++
		}
	}
	return out, nil
}

// Progress

func (m *MemoryStore) GetProgress(_ context.Context, userID, lessonID uuid.UUID) (*models.LessonProgress, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.progress[pairKey{userID, lessonID}]
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (m *MemoryStore) ListProgress(_ context.Context, userID uuid.UUID, lessonIDs []uuid.UUID) ([]models.LessonProgress, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []models.LessonProgress
	for _, lessonID := range lessonIDs {
		if p, ok := m.progress[pairKey{userID, lessonID}]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *MemoryStore) MarkComplete(_ context.Context, userID, lessonID uuid.UUID) (*models.LessonProgress, error) {
	return m.upsertProgress(userID, lessonID, func(p *models.LessonProgress) { p.IsCompleted = true })
}

func (m *MemoryStore) SaveWatchPosition(_ context.Context, userID, lessonID uuid.UUID, second int) (*models.LessonProgress, error) {
	return m.upsertProgress(userID, lessonID, func(p *models.LessonProgress) { p.LastWatchedSecond = second })
}

func (m *MemoryStore) upsertProgress(userID, lessonID uuid.UUID, apply func(*models.LessonProgress)) (*models.LessonProgress, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := pairKey{userID, lessonID}
	now := time.Now().UTC()
	p, ok := m.progress[key]
	if !ok {
		p = models.LessonProgress{ID: uuid.New(), UserID: userID, LessonID: lessonID, CreatedAt: now}
	}
	apply(&p)
	p.UpdatedAt = now
	m.progress[key] = p
	return &p, nil
}

// Reviews

func (m *MemoryStore) CreateReview(_ context.Context, review *models.Review) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.reviews {
		if r.UserID == review.UserID && r.CourseID == review.CourseID {
			return ErrDuplicate
		}
	}
	review.ID = newID(review.ID)
	now := time.Now().UTC()
	review.CreatedAt, review.UpdatedAt = now, now
	m.reviews[review.ID] = *review
	m.reviewOrder = append(m.reviewOrder, review.ID)
	return nil
}

func (m *MemoryStore) GetReview(_ context.Context, id uuid.UUID) (*models.Review, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.reviews[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &r, nil
}

func (m *MemoryStore) GetReviewByUserCourse(_ context.Context, userID, courseID uuid.UUID) (*models.Review, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, r := range m.reviews {
		if r.UserID == userID && r.CourseID == courseID {
			return &r, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryStore) ListReviewsByCourse(_ context.Context, courseID uuid.UUID) ([]models.Review, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []models.Review
	for i := len(m.reviewOrder) - 1; i >= 0; i-- {
		if r, ok := m.reviews[m.reviewOrder[i]]; ok && r.CourseID == courseID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *MemoryStore) UpdateReview(_ context.Context, review *models.Review) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.reviews[review.ID]
	if !ok {
		return ErrNotFound
	}
	r.Rating = review.Rating
	r.Comment = review.Comment
	r.UpdatedAt = time.Now().UTC()
	m.reviews[r.ID] = r
	return nil
}

func (m *MemoryStore) DeleteReview(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.reviews[id]; !ok {
		return ErrNotFound
	}
	delete(m.reviews, id)
	m.reviewOrder = pruneOrder(m.reviewOrder, func(rid uuid.UUID) bool { return rid != id })
	return nil
}

// Chat

func (m *MemoryStore) CreateMessage(_ context.Context, msg *models.ChatMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	msg.ID = newID(msg.ID)
	msg.CreatedAt = time.Now().UTC()
	m.messages = append(m.messages, *msg)
	return nil
}

func (m *MemoryStore) ListRecentMessages(_ context.Context, limit int) ([]models.ChatMessage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	start := 0
	if limit > 0 && len(m.messages) > limit {
		start = len(m.messages) - limit
	}
	out := make([]models.ChatMessage, len(m.messages)-start)
	copy(out, m.messages[start:])
	return out, nil
}

func (m *MemoryStore) DeleteMessagesBefore(_ context.Context, t time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.messages[:0]
	for _, msg := range m.messages {
		if !msg.CreatedAt.Before(t) {
			kept = append(kept, msg)
		}
	}
	removed := int64(len(m.messages) - len(kept))
	m.messages = kept
	return removed, nil
}

var (
	_ Store = (*MemoryStore)(nil)
	_ Store = (*GormStore)(nil)
)
