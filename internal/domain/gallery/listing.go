package gallery

import (
	"thangka-gallery/internal/domain/social"
	"thangka-gallery/internal/domain/works"

	"gorm.io/gorm"
)

// Item is an artwork plus the attributes derived for one viewer.
type Item struct {
	Artwork      works.Artwork
	ArtistName   string
	OwnerUserID  *uint
	Thumb        string
	LikesCount   int64
	IsLiked      bool
	IsBookmarked bool
	IsFollowing  bool // viewer follows the artist's user
}

type Page struct {
	Items    []Item
	Page     int
	PageSize int
	HasNext  bool
}

func normalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return page, pageSize
}

// ListPublished returns one page of published artworks in gallery order,
// decorated for viewerID (0 for anonymous).
func ListPublished(db *gorm.DB, viewerID uint, f Filter, page, pageSize int) (Page, error) {
	page, pageSize = normalizePage(page, pageSize)
	q := Ordered(f.Apply(PublishedQuery(db)))
	return listPage(db, q, viewerID, page, pageSize)
}

// ListByArtist lists every artwork of an artist (published or not), newest first.
// Used for the owner's own pages.
func ListByArtist(db *gorm.DB, viewerID, artistID uint, page, pageSize int) (Page, error) {
	page, pageSize = normalizePage(page, pageSize)
	q := db.Model(&works.Artwork{}).
		Where("artworks.artist_id = ?", artistID).
		Order("artworks.created_at DESC").
		Order("artworks.id DESC")
	return listPage(db, q, viewerID, page, pageSize)
}

// ListLatest pages published artworks newest first, optionally limited to one
// artist (artistID 0 means everyone).
func ListLatest(db *gorm.DB, viewerID, artistID uint, page, pageSize int) (Page, error) {
	page, pageSize = normalizePage(page, pageSize)
	q := PublishedQuery(db)
	if artistID != 0 {
		q = q.Where("artworks.artist_id = ?", artistID)
	}
	q = q.Order("artworks.created_at DESC").Order("artworks.id DESC")
	return listPage(db, q, viewerID, page, pageSize)
}

// listPage fetches pageSize+1 rows to learn whether another page exists.
func listPage(db *gorm.DB, q *gorm.DB, viewerID uint, page, pageSize int) (Page, error) {
	var rows []works.Artwork
	if err := preloadCard(q).
		Offset((page - 1) * pageSize).
		Limit(pageSize + 1).
		Find(&rows).Error; err != nil {
		return Page{}, err
	}

	out := Page{Page: page, PageSize: pageSize}
	if len(rows) > pageSize {
		out.HasNext = true
		rows = rows[:pageSize]
	}

	items, err := Decorate(db, viewerID, rows)
	if err != nil {
		return Page{}, err
	}
	out.Items = items
	return out, nil
}

// Decorate derives per-viewer attributes for already loaded artworks.
// Artist.User and Images should be preloaded.
func Decorate(db *gorm.DB, viewerID uint, rows []works.Artwork) ([]Item, error) {
	items := make([]Item, 0, len(rows))
	if len(rows) == 0 {
		return items, nil
	}

	artworkIDs := make([]uint, 0, len(rows))
	var ownerIDs []uint
	for i := range rows {
		artworkIDs = append(artworkIDs, rows[i].ID)
		if uid := rows[i].OwnerUserID(); uid != nil {
			ownerIDs = append(ownerIDs, *uid)
		}
	}

	counts, err := social.LikeCounts(db, artworkIDs)
	if err != nil {
		return nil, err
	}
	state, err := social.ViewerState(db, viewerID, artworkIDs, ownerIDs)
	if err != nil {
		return nil, err
	}

	for i := range rows {
		a := rows[i]
		it := Item{
			Artwork:      a,
			ArtistName:   a.Artist.DisplayName(),
			OwnerUserID:  a.OwnerUserID(),
			Thumb:        a.FirstImage().Thumb(),
			LikesCount:   counts[a.ID],
			IsLiked:      state.Liked[a.ID],
			IsBookmarked: state.Bookmarked[a.ID],
		}
		if it.OwnerUserID != nil {
			it.IsFollowing = state.Following[*it.OwnerUserID]
		}
		items = append(items, it)
	}
	return items, nil
}

// Featured returns up to limit published artworks in gallery order
// (featured ones first).
func Featured(db *gorm.DB, limit int) ([]works.Artwork, error) {
	if limit <= 0 {
		limit = FeaturedLimit
	}
	var out []works.Artwork
	err := preloadCard(Ordered(PublishedQuery(db))).Limit(limit).Find(&out).Error
	return out, err
}

func Categories(db *gorm.DB) ([]works.Category, error) {
	var out []works.Category
	err := db.Order("name ASC").Find(&out).Error
	return out, err
}

func Tags(db *gorm.DB) ([]works.Tag, error) {
	var out []works.Tag
	err := db.Order("name ASC").Find(&out).Error
	return out, err
}
