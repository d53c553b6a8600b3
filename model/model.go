// Package model defines domain entities used by services and repositories.
package model

import "time"

// Role is the access level stored with a user account.
type Role string

// Closed set of account roles; the database enforces the same set via CHECK.
const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// RecipeStatus marks a recipe row as live or soft-deleted.
type RecipeStatus string

const (
	StatusActive  RecipeStatus = "active"
	StatusDeleted RecipeStatus = "deleted"
)

// EventType classifies entries in the recipe event log.
type EventType string

const (
	EventView   EventType = "view"
	EventEdit   EventType = "edit"
	EventDelete EventType = "delete"
	EventCreate EventType = "create"
)

// User represents an account row. The password is stored as an argon2id
// digest with a per-user salt, never in plaintext.
type User struct {
	ID           int64
	Username     string // unique
	PasswordHash []byte
	PasswordSalt []byte
	Role         Role
	CreatedAt    time.Time
	LastLogin    *time.Time // nil until first successful login
	RecipeCount  int        // denormalized: active recipes authored
}

// Category is a recipe grouping with a denormalized active-recipe counter.
type Category struct {
	ID          int64
	Name        string // unique
	RecipeCount int
}

// Recipe is a single recipe row. CreatedBy stores the author's username.
type Recipe struct {
	ID           int64
	Title        string
	Instructions string
	Views        int64
	PrepTime     int // minutes
	CreatedBy    string
	CreatedAt    time.Time
	UpdatedAt    *time.Time // nil until first update
	Status       RecipeStatus
}

// Ingredient is one recipe line item. Quantity may be empty.
type Ingredient struct {
	ID         int64
	RecipeID   int64
	Ingredient string
	Quantity   string
}

// RecipeSummary is the listing row shape; instructions stay out of listings.
type RecipeSummary struct {
	ID        int64
	Title     string
	Views     int64
	PrepTime  int
	CreatedBy string
	CreatedAt time.Time
}

// RecipeDetails bundles a recipe with its linked categories and ingredients.
type RecipeDetails struct {
	Recipe      Recipe
	Categories  []Category
	Ingredients []Ingredient
}

// RecipeEvent is one append-only audit log entry. RecipeID is nil when the
// recipe row was hard-removed and the FK was set to NULL.
type RecipeEvent struct {
	ID        int64
	RecipeID  *int64
	Username  string
	EventType EventType
	EventTime time.Time
}

// UserRecipeView is the per-user view counter for one recipe.
type UserRecipeView struct {
	ID         int64
	Username   string
	RecipeID   int64
	ViewCount  int64
	LastViewed time.Time
}

// IngredientInput is a raw ingredient pair before validation.
type IngredientInput struct {
	Ingredient string
	Quantity   string
}

// CreateRecipeParams carries everything needed to create a recipe.
type CreateRecipeParams struct {
	Title        string
	Instructions string
	PrepTime     int
	Author       string
	CategoryIDs  []int64
	Ingredients  []IngredientInput
}

// CreateRecipeResult reports the new id plus any inputs skipped along the way.
type CreateRecipeResult struct {
	RecipeID           int64
	SkippedCategoryIDs []int64
	SkippedIngredients []IngredientInput
}

// UpdateRecipeParams rewrites a recipe's mutable fields. Category links and
// ingredients are replaced wholesale only when the matching flag is set.
type UpdateRecipeParams struct {
	Title              string
	Instructions       string
	PrepTime           int
	ReplaceCategories  bool
	CategoryIDs        []int64
	ReplaceIngredients bool
	Ingredients        []IngredientInput
}

// UpdateRecipeResult reports inputs skipped during an update.
type UpdateRecipeResult struct {
	SkippedCategoryIDs []int64
	SkippedIngredients []IngredientInput
}

// AuthorStats is one row of the per-author leaderboard.
type AuthorStats struct {
	Username    string
	RecipeCount int
	TotalViews  int64
}

// SystemStats aggregates the reporting snapshot.
type SystemStats struct {
	TotalUsers      int64
	ActiveRecipes   int64
	TotalCategories int64
	TotalViews      int64
	RecentEvents    int64 // events in the trailing 7 days
	RecentRecipes   int64 // active recipes created in the trailing 7 days
	TopUsers        []AuthorStats
}
