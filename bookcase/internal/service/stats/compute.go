package stats

import (
	"math"
	"sort"
	"strconv"
	"time"

	"github.com/Astemirdum/bookcase/bookcase/internal/model"
)

const (
	topDays    = 3
	topAuthors = 5
	topGenres  = 5
	topBooks   = 3
)

// civilDay maps an instant to its calendar day in loc, expressed as UTC midnight.
func civilDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// sessionDay reads a date column value without shifting it across zones.
func sessionDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func ComputeDashboard(today time.Time, loc *time.Location, finished []model.FinishedBook,
	counts model.StatusCounts, streaks []model.ReadingStreak, ratings []float64,
) model.Dashboard {
	d := model.Dashboard{
		MonthlyBooks:       make(map[int]int, int(today.Month())),
		RatingDistribution: make(map[string]int, len(model.RatingKeys)),
	}
	yearStart := time.Date(today.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	for m := time.January; m <= today.Month(); m++ {
		d.MonthlyBooks[int(m)] = 0
	}
	within := func(day time.Time, n int) bool {
		return !day.Before(today.AddDate(0, 0, -n))
	}

	var (
		pagesTotal, pagesBooks int
		firstFinish            time.Time
	)
	for _, b := range finished {
		pages := 0
		if b.Pages != nil {
			pages = *b.Pages
			pagesTotal += pages
			pagesBooks++
		}
		d.BooksAllTime++
		d.PagesAllTime += pages
		if b.DateFinished == nil {
			continue
		}
		day := civilDay(*b.DateFinished, loc)
		if firstFinish.IsZero() || day.Before(firstFinish) {
			firstFinish = day
		}
		for _, w := range []struct {
			days  int
			books *int
			pages *int
		}{
			{7, &d.BooksLast7Days, nil},
			{14, &d.BooksLast14Days, nil},
			{30, &d.BooksLast30Days, &d.PagesLast30Days},
			{60, &d.BooksLast60Days, &d.PagesLast60Days},
			{90, &d.BooksLast90Days, &d.PagesLast90Days},
		} {
			if within(day, w.days) {
				*w.books++
				if w.pages != nil {
					*w.pages += pages
				}
			}
		}
		if !day.Before(yearStart) {
			d.BooksThisYear++
			d.PagesThisYear += pages
			if day.Year() == today.Year() && day.Month() <= today.Month() {
				d.MonthlyBooks[int(day.Month())]++
			}
		}
	}

	if pagesBooks > 0 {
		d.AvgPagesPerBook = round1(float64(pagesTotal) / float64(pagesBooks))
	}
	if d.BooksAllTime > 0 {
		months := 1
		if !firstFinish.IsZero() {
			months = (today.Year()-firstFinish.Year())*12 + int(today.Month()) - int(firstFinish.Month())
		}
		if months < 1 {
			months = 1
		}
		d.AvgBooksPerMonth = round1(float64(d.BooksAllTime) / float64(months))
	}
	d.AvgPagesPerDay = round1(float64(d.PagesLast30Days) / 30)

	for _, s := range streaks {
		length := s.Length(today)
		if s.CurrentStreak && d.CurrentStreakDays == 0 {
			d.CurrentStreakDays = length
		}
		if length > d.LongestStreakDays {
			d.LongestStreakDays = length
		}
	}

	d.CurrentlyReading = counts.Reading
	d.TBRBooks = counts.TBR
	d.FinishedBooks = d.BooksAllTime

	for _, k := range model.RatingKeys {
		d.RatingDistribution[k] = 0
	}
	var sum float64
	for _, r := range ratings {
		sum += r
		d.RatingDistribution[strconv.FormatFloat(r, 'f', 1, 64)]++
	}
	d.TotalRatings = len(ratings)
	if len(ratings) > 0 {
		d.AvgRating = round1(sum / float64(len(ratings)))
	}
	return d
}

// ComputeTimeline returns exactly days records ending today, oldest first.
func ComputeTimeline(today time.Time, days int, loc *time.Location, entries []model.EntryDates, sessions []model.ReadingSession) []model.TimelineDay {
	first := today.AddDate(0, 0, -(days - 1))
	timeline := make([]model.TimelineDay, days)
	for i := range timeline {
		timeline[i].Date = first.AddDate(0, 0, i).Format(model.DateLayout)
	}
	index := func(day time.Time) (int, bool) {
		i := model.DaysBetween(first, day)
		return i, i >= 0 && i < days
	}

	for _, e := range entries {
		if e.DateStarted != nil {
			if i, ok := index(civilDay(*e.DateStarted, loc)); ok {
				timeline[i].BooksStarted++
			}
		}
		if e.Status == model.StatusFinished && e.DateFinished != nil {
			if i, ok := index(civilDay(*e.DateFinished, loc)); ok {
				timeline[i].BooksFinished++
			}
		}
	}
	for _, s := range sessions {
		if i, ok := index(sessionDay(s.SessionDate)); ok {
			timeline[i].PagesRead += s.PagesRead()
		}
	}
	return timeline
}

// ComputeGenres buckets finished books by genre, most common first.
func ComputeGenres(finished []model.FinishedBook) []model.GenreStat {
	type bucket struct {
		stat    model.GenreStat
		ratings []float64
	}
	var (
		order   []string
		buckets = map[string]*bucket{}
	)
	for _, b := range finished {
		for _, g := range b.Genres {
			bk, ok := buckets[g]
			if !ok {
				bk = &bucket{stat: model.GenreStat{Genre: g}}
				buckets[g] = bk
				order = append(order, g)
			}
			bk.stat.BookCount++
			if b.Pages != nil {
				bk.stat.TotalPages += *b.Pages
			}
			if b.OverallRating != nil {
				bk.ratings = append(bk.ratings, *b.OverallRating)
			}
		}
	}

	total := len(finished)
	out := make([]model.GenreStat, 0, len(order))
	for _, g := range order {
		bk := buckets[g]
		if len(bk.ratings) > 0 {
			var sum float64
			for _, r := range bk.ratings {
				sum += r
			}
			bk.stat.AvgRating = round1(sum / float64(len(bk.ratings)))
		}
		if total > 0 {
			bk.stat.Percentage = round1(float64(bk.stat.BookCount) / float64(total) * 100)
		}
		out = append(out, bk.stat)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].BookCount > out[j].BookCount
	})
	return out
}

type counted struct {
	key   string
	count int
}

// topN counts keys in encounter order and keeps the n largest, ties stable.
func topN(keys []string, n int) []counted {
	var order []counted
	idx := map[string]int{}
	for _, k := range keys {
		if i, ok := idx[k]; ok {
			order[i].count++
			continue
		}
		idx[k] = len(order)
		order = append(order, counted{key: k, count: 1})
	}
	sort.SliceStable(order, func(i, j int) bool {
		return order[i].count > order[j].count
	})
	if len(order) > n {
		order = order[:n]
	}
	return order
}

func ComputeHabits(today time.Time, finished []model.FinishedBook, sessions []model.ReadingSession) model.Habits {
	h := model.Habits{
		MostProductiveDays:  []model.DayPages{},
		MostProductiveHours: []int{},
		FavoriteAuthors:     []model.AuthorCount{},
		FavoriteGenres:      []model.GenreCount{},
		LongestBooks:        []model.BookPages{},
		ShortestBooks:       []model.BookPages{},
	}

	var (
		totalPages, recentPages   int
		durationSum, withDuration int
		dayOrder                  []string
		dayPages                  = map[string]int{}
	)
	monthAgo := today.AddDate(0, 0, -30)
	for _, s := range sessions {
		pages := s.PagesRead()
		totalPages += pages
		day := sessionDay(s.SessionDate)
		if !day.Before(monthAgo) {
			recentPages += pages
		}
		if s.DurationMinutes != nil {
			durationSum += *s.DurationMinutes
			withDuration++
		}
		name := day.Weekday().String()
		if _, ok := dayPages[name]; !ok {
			dayOrder = append(dayOrder, name)
		}
		dayPages[name] += pages
	}
	if len(sessions) > 0 {
		h.AvgPagesPerSession = round1(float64(totalPages) / float64(len(sessions)))
	}
	if withDuration > 0 {
		h.AvgSessionDuration = round1(float64(durationSum) / float64(withDuration))
	}
	h.AvgPagesPerDay = round1(float64(recentPages) / 30)

	days := make([]model.DayPages, 0, len(dayOrder))
	for _, name := range dayOrder {
		days = append(days, model.DayPages{Day: name, Pages: dayPages[name]})
	}
	sort.SliceStable(days, func(i, j int) bool { return days[i].Pages > days[j].Pages })
	if len(days) > topDays {
		days = days[:topDays]
	}
	h.MostProductiveDays = days

	var authors, genres []string
	var withPages []model.BookPages
	for _, b := range finished {
		authors = append(authors, b.Authors...)
		genres = append(genres, b.Genres...)
		if b.Pages != nil && *b.Pages > 0 {
			withPages = append(withPages, model.BookPages{Title: b.Title, Pages: *b.Pages})
		}
	}
	for _, c := range topN(authors, topAuthors) {
		h.FavoriteAuthors = append(h.FavoriteAuthors, model.AuthorCount{Author: c.key, Count: c.count})
	}
	for _, c := range topN(genres, topGenres) {
		h.FavoriteGenres = append(h.FavoriteGenres, model.GenreCount{Genre: c.key, Count: c.count})
	}

	longest := append([]model.BookPages(nil), withPages...)
	sort.SliceStable(longest, func(i, j int) bool { return longest[i].Pages > longest[j].Pages })
	shortest := append([]model.BookPages(nil), withPages...)
	sort.SliceStable(shortest, func(i, j int) bool { return shortest[i].Pages < shortest[j].Pages })
	if len(longest) > topBooks {
		longest = longest[:topBooks]
		shortest = shortest[:topBooks]
	}
	h.LongestBooks = append(h.LongestBooks, longest...)
	h.ShortestBooks = append(h.ShortestBooks, shortest...)
	return h
}
