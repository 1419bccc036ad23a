package mongo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/feas-hq/allocation-system/internal/core/domain"
)

const directoryCollection = "directory_entries"

// DirectoryRepository stores the directory snapshot, one document per user,
// keyed by username. Refreshed by the sync service; read by reportee and
// employee-directory lookups.
type DirectoryRepository struct {
	coll *mongo.Collection
}

func NewDirectoryRepository(db *mongo.Database) *DirectoryRepository {
	return &DirectoryRepository{coll: db.Collection(directoryCollection)}
}

type directoryEntry struct {
	Username    string   `bson:"username"`
	DisplayName string   `bson:"cn"`
	Email       string   `bson:"mail,omitempty"`
	Title       string   `bson:"title,omitempty"`
	Department  string   `bson:"department,omitempty"`
	DN          string   `bson:"dn,omitempty"`
	ManagerDN   string   `bson:"manager_dn,omitempty"`
	Groups      []string `bson:"groups,omitempty"`
	SyncedAt    int64    `bson:"synced_at"`
}

func (r *DirectoryRepository) Upsert(ctx context.Context, entry domain.Identity) error {
	if entry.Username == "" {
		return fmt.Errorf("upsert directory entry: empty username")
	}
	doc := directoryEntry{
		Username:    entry.Username,
		DisplayName: entry.DisplayName,
		Email:       entry.Email,
		Title:       entry.Title,
		Department:  entry.Department,
		DN:          entry.DN,
		ManagerDN:   entry.ManagerDN,
		Groups:      entry.Groups,
		SyncedAt:    time.Now().UTC().Unix(),
	}

	_, err := r.coll.UpdateOne(ctx,
		bson.M{"username": entry.Username},
		bson.M{"$set": doc},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("upsert directory entry: %w", err)
	}
	return nil
}

func (r *DirectoryRepository) FindByUsername(ctx context.Context, username string) (*domain.Identity, error) {
	var doc directoryEntry
	if err := r.coll.FindOne(ctx, bson.M{"username": username}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("find directory entry: %w", err)
	}
	id := docToIdentity(doc)
	return &id, nil
}

func (r *DirectoryRepository) ReporteesOf(ctx context.Context, managerDN string) ([]domain.Reportee, error) {
	cur, err := r.coll.Find(ctx, bson.M{"manager_dn": managerDN})
	if err != nil {
		return nil, fmt.Errorf("find reportees: %w", err)
	}
	defer cur.Close(ctx)

	var reportees []domain.Reportee
	for cur.Next(ctx) {
		var doc directoryEntry
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode reportee: %w", err)
		}
		reportees = append(reportees, domain.Reportee{
			Username:    doc.Username,
			DisplayName: doc.DisplayName,
			Title:       doc.Title,
			Email:       doc.Email,
			DN:          doc.DN,
		})
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate reportees: %w", err)
	}
	return reportees, nil
}

// Search matches name, username or mail against a case-insensitive prefix.
func (r *DirectoryRepository) Search(ctx context.Context, query string, limit int) ([]domain.Identity, error) {
	if limit <= 0 || limit > 50 {
		limit = 50
	}
	pattern := bson.M{"$regex": "^" + escapeRegex(query), "$options": "i"}
	filter := bson.M{"$or": []bson.M{
		{"cn": pattern},
		{"username": pattern},
		{"mail": pattern},
	}}

	cur, err := r.coll.Find(ctx, filter, options.Find().SetLimit(int64(limit)).SetSort(bson.D{{Key: "cn", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("search directory: %w", err)
	}
	defer cur.Close(ctx)

	var entries []domain.Identity
	for cur.Next(ctx) {
		var doc directoryEntry
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode directory entry: %w", err)
		}
		entries = append(entries, docToIdentity(doc))
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate directory entries: %w", err)
	}
	return entries, nil
}

func (r *DirectoryRepository) Count(ctx context.Context) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("count directory entries: %w", err)
	}
	return n, nil
}

func docToIdentity(doc directoryEntry) domain.Identity {
	return domain.Identity{
		Username:    doc.Username,
		DisplayName: doc.DisplayName,
		Email:       doc.Email,
		Title:       doc.Title,
		Department:  doc.Department,
		DN:          doc.DN,
		ManagerDN:   doc.ManagerDN,
		Groups:      doc.Groups,
	}
}

// escapeRegex neutralizes regex metacharacters in user-supplied queries.
func escapeRegex(s string) string {
	const meta = `\.+*?()|[]{}^$`
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if strings.IndexByte(meta, s[i]) >= 0 {
			out = append(out, '\\')
		}
		out = append(out, s[i])
	}
	return string(out)
}
