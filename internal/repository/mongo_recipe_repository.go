package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/nexium/recipe-service/internal/domain"
)

type recipeDocument struct {
	ID           bson.ObjectID `bson:"_id,omitempty"`
	Title        string        `bson:"title"`
	Description  string        `bson:"description"`
	Category     string        `bson:"category"`
	Ingredients  []string      `bson:"ingredients"`
	Instructions []string      `bson:"instructions"`
	PrepTime     string        `bson:"prepTime"`
	CookTime     string        `bson:"cookTime"`
	ImageURL     *string       `bson:"imageUrl"`
	ClerkID      string        `bson:"clerkId"`
	CreatedAt    time.Time     `bson:"createdAt"`
	UpdatedAt    time.Time     `bson:"updatedAt"`
}

func (d *recipeDocument) toDomain() domain.Recipe {
	return domain.Recipe{
		ID:           d.ID.Hex(),
		Title:        d.Title,
		Description:  d.Description,
		Category:     d.Category,
		Ingredients:  nonNil(d.Ingredients),
		Instructions: nonNil(d.Instructions),
		PrepTime:     d.PrepTime,
		CookTime:     d.CookTime,
		ImageURL:     d.ImageURL,
		Owner:        d.ClerkID,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

// MongoRecipeRepository implements RecipeRepository on a MongoDB collection
type MongoRecipeRepository struct {
	coll *mongo.Collection
	now  func() time.Time
}

// NewMongoRecipeRepository creates a recipe repository backed by coll
func NewMongoRecipeRepository(coll *mongo.Collection) *MongoRecipeRepository {
	return &MongoRecipeRepository{coll: coll, now: time.Now}
}

// FindRecipesByOwner lists an owner's recipes, newest first
func (r *MongoRecipeRepository) FindRecipesByOwner(ctx context.Context, owner string) ([]domain.Recipe, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.D{{Key: "clerkId", Value: owner}}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find recipes by owner: %w", err)
	}

	var docs []recipeDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode recipes: %w", err)
	}

	recipes := make([]domain.Recipe, 0, len(docs))
	for i := range docs {
		recipes = append(recipes, docs[i].toDomain())
	}
	return recipes, nil
}

// FindRecipeByID fetches a single recipe. Ids that are not valid ObjectIDs are reported as not found.
func (r *MongoRecipeRepository) FindRecipeByID(ctx context.Context, id string) (*domain.Recipe, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrNotFound
	}

	var doc recipeDocument
	err = r.coll.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find recipe: %w", err)
	}

	recipe := doc.toDomain()
	return &recipe, nil
}

// CreateRecipe inserts a new recipe document and stamps its timestamps
func (r *MongoRecipeRepository) CreateRecipe(ctx context.Context, recipe *domain.Recipe) (*domain.Recipe, error) {
	now := r.now().UTC()
	doc := recipeDocument{
		Title:        recipe.Title,
		Description:  recipe.Description,
		Category:     recipe.Category,
		Ingredients:  nonNil(recipe.Ingredients),
		Instructions: nonNil(recipe.Instructions),
		PrepTime:     recipe.PrepTime,
		CookTime:     recipe.CookTime,
		ImageURL:     recipe.ImageURL,
		ClerkID:      recipe.Owner,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("failed to create recipe: %w", err)
	}

	if id, ok := res.InsertedID.(bson.ObjectID); ok {
		doc.ID = id
	}
	created := doc.toDomain()
	return &created, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
