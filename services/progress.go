package services

import (
	"github.com/google/uuid"

	"github.com/fcode/course-platform-backend/models"
)

// MergeProgress attaches each lesson's progress to the chapter tree. Lessons
// without a progress row get the zero state. Chapter and lesson order is kept
// as given, so callers pass both slices already sorted by order_index.
func MergeProgress(chapters []models.Chapter, lessons []models.Lesson, progress []models.LessonProgress) []EnrolledChapter {
	byLesson := make(map[uuid.UUID]ProgressState, len(progress))
	for _, p := range progress {
		byLesson[p.LessonID] = ProgressState{
			IsCompleted:       p.IsCompleted,
			LastWatchedSecond: p.LastWatchedSecond,
		}
	}

	byChapter := make(map[uuid.UUID][]LessonWithProgress, len(chapters))
	for _, l := range lessons {
		byChapter[l.ChapterID] = append(byChapter[l.ChapterID], LessonWithProgress{
			Lesson:   l,
			Progress: byLesson[l.ID],
		})
	}

	out := make([]EnrolledChapter, 0, len(chapters))
	for _, ch := range chapters {
		items := byChapter[ch.ID]
		if items == nil {
			items = []LessonWithProgress{}
		}
		out = append(out, EnrolledChapter{
			ID:         ch.ID,
			Title:      ch.Title,
			OrderIndex: ch.OrderIndex,
			Lessons:    items,
		})
	}
	return out
}

// Summarize counts completed lessons in a merged tree.
func Summarize(chapters []EnrolledChapter) ProgressSummary {
	var s ProgressSummary
	for _, ch := range chapters {
		for _, l := range ch.Lessons {
			s.TotalLessons++
			if l.Progress.IsCompleted {
				s.CompletedLessons++
			}
		}
	}
	return s
}

// PublicTree strips lessons down to their metadata.
func PublicTree(chapters []models.Chapter, lessons []models.Lesson) []PublicChapter {
	byChapter := make(map[uuid.UUID][]PublicLesson, len(chapters))
	for _, l := range lessons {
		byChapter[l.ChapterID] = append(byChapter[l.ChapterID], PublicLesson{
			ID:              l.ID,
			Title:           l.Title,
			DurationSeconds: l.DurationSeconds,
			IsPreview:       l.IsPreview,
			ContentType:     l.ContentType,
		})
	}

	out := make([]PublicChapter, 0, len(chapters))
	for _, ch := range chapters {
		items := byChapter[ch.ID]
		if items == nil {
			items = []PublicLesson{}
		}
		out = append(out, PublicChapter{
			ID:         ch.ID,
			Title:      ch.Title,
			OrderIndex: ch.OrderIndex,
			Lessons:    items,
		})
	}
	return out
}

func lessonIDs(lessons []models.Lesson) []uuid.UUID {
	ids := make([]uuid.UUID, len(lessons))
	for i, l := range lessons {
		ids[i] = l.ID
	}
	return ids
}

func chapterIDs(chapters []models.Chapter) []uuid.UUID {
	ids := make([]uuid.UUID, len(chapters))
	for i, ch := range chapters {
		ids[i] = ch.ID
	}
	return ids
}
