package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/inkpost/blog-api/internal/core/domain"
)

const postsCollection = "posts"

type PostRepository struct {
	col *mongo.Collection
}

func NewPostRepository(db *mongo.Database) *PostRepository {
	return &PostRepository{col: db.Collection(postsCollection)}
}

type mongoPost struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Title     string             `bson:"title"`
	Summary   string             `bson:"summary"`
	Content   string             `bson:"content"`
	Cover     string             `bson:"cover,omitempty"`
	Author    primitive.ObjectID `bson:"author"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

// populatedPost is a post joined with its author by the $lookup stage.
type populatedPost struct {
	Post      mongoPost `bson:",inline"`
	AuthorDoc []struct {
		ID       primitive.ObjectID `bson:"_id"`
		Username string             `bson:"username"`
	} `bson:"authorDoc"`
}

// Create inserts the post and reads it back with its author resolved.
func (r *PostRepository) Create(ctx context.Context, p *domain.Post) (*domain.Post, error) {
	authorID, err := primitive.ObjectIDFromHex(p.Author.ID)
	if err != nil {
		return nil, fmt.Errorf("insert post: author id %q: %w", p.Author.ID, err)
	}

	insertCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.InsertOne(insertCtx, mongoPost{
		Title:     p.Title,
		Summary:   p.Summary,
		Content:   p.Content,
		Cover:     p.Cover,
		Author:    authorID,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("insert post: %w", err)
	}

	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("insert post: unexpected id type %T", res.InsertedID)
	}
	return r.FindByID(ctx, id.Hex())
}

// FindByID returns one post with its author resolved. Malformed ids are
// reported as not found.
func (r *PostRepository) FindByID(ctx context.Context, id string) (*domain.Post, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrPostNotFound
	}

	posts, err := r.aggregate(ctx, bson.D{{Key: "_id", Value: oid}}, 1)
	if err != nil {
		return nil, fmt.Errorf("find post: %w", err)
	}
	if len(posts) == 0 {
		return nil, domain.ErrPostNotFound
	}
	return posts[0], nil
}

// Update sets the mutable fields in one document write. The author is part
// of the filter, so the write only lands while authorID still owns the post.
func (r *PostRepository) Update(ctx context.Context, id, authorID string, f domain.PostFields) (*domain.Post, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrPostNotFound
	}
	aid, err := primitive.ObjectIDFromHex(authorID)
	if err != nil {
		return nil, domain.ErrPostNotFound
	}

	set := bson.M{
		"title":     f.Title,
		"summary":   f.Summary,
		"content":   f.Content,
		"updatedAt": time.Now().UTC(),
	}
	if f.Cover != "" {
		set["cover"] = f.Cover
	}

	updateCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(updateCtx, bson.M{"_id": oid, "author": aid}, bson.M{"$set": set})
	if err != nil {
		return nil, fmt.Errorf("update post: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrPostNotFound
	}
	return r.FindByID(ctx, id)
}

// Delete removes the post and returns the removed document. The author is
// not resolved on the returned post.
func (r *PostRepository) Delete(ctx context.Context, id string) (*domain.Post, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrPostNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mp mongoPost
	if err := r.col.FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&mp); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrPostNotFound
		}
		return nil, fmt.Errorf("delete post: %w", err)
	}
	return mp.toDomain(), nil
}

// List returns the newest posts first, at most limit of them.
func (r *PostRepository) List(ctx context.Context, limit int) ([]*domain.Post, error) {
	posts, err := r.aggregate(ctx, bson.D{}, limit)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return posts, nil
}

// EnsureIndexes creates the indexes backing List and author lookups.
func (r *PostRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}},
		{Keys: bson.D{{Key: "author", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

// aggregate matches, orders newest first, limits and joins each post with
// the username of its author.
func (r *PostRepository) aggregate(ctx context.Context, match bson.D, limit int) ([]*domain.Post, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}}},
		{{Key: "$limit", Value: limit}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: usersCollection},
			{Key: "localField", Value: "author"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "authorDoc"},
		}}},
		{{Key: "$project", Value: bson.D{
			{Key: "authorDoc.password", Value: 0},
			{Key: "authorDoc.createdAt", Value: 0},
			{Key: "authorDoc.updatedAt", Value: 0},
		}}},
	}

	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var docs []populatedPost
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}

	posts := make([]*domain.Post, 0, len(docs))
	for _, d := range docs {
		p := d.Post.toDomain()
		if len(d.AuthorDoc) > 0 {
			p.Author.Username = d.AuthorDoc[0].Username
		}
		posts = append(posts, p)
	}
	return posts, nil
}

func (mp mongoPost) toDomain() *domain.Post {
	return &domain.Post{
		ID:        mp.ID.Hex(),
		Title:     mp.Title,
		Summary:   mp.Summary,
		Content:   mp.Content,
		Cover:     mp.Cover,
		Author:    domain.AuthorRef{ID: mp.Author.Hex()},
		CreatedAt: mp.CreatedAt.UTC(),
		UpdatedAt: mp.UpdatedAt.UTC(),
	}
}
