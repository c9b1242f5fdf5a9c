package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"marketplace/internal/models"
)

// ReviewService is the review/reply subsystem. It is independent of the
// order core; its only coupling is the catalog lookup used to validate the
// reviewed product and to authorize seller replies.
type ReviewService struct {
	db      *mongo.Database
	catalog Catalog
}

func NewReviewService(db *mongo.Database, catalog Catalog) *ReviewService {
	return &ReviewService{db: db, catalog: catalog}
}

func (s *ReviewService) collection() *mongo.Collection {
	return s.db.Collection("reviews")
}

// CreateReview stores a buyer's rating. The product must exist; its current
// seller is recorded on the review.
func (s *ReviewService) CreateReview(ctx context.Context, userID, productID primitive.ObjectID, rating int, title, comment string) (*models.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrValidation
	}

	sellerID, err := s.catalog.GetSellerIDFromProductID(ctx, productID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	review := models.Review{
		ProductID: productID,
		UserID:    userID,
		SellerID:  sellerID,
		Rating:    rating,
		Title:     title,
		Comment:   comment,
		Replies:   []models.ReviewReply{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	res, err := s.collection().InsertOne(ctx, review)
	if err != nil {
		logError("CreateReview", err, map[string]any{"productId": productID.Hex()})
		return nil, err
	}
	review.ID = res.InsertedID.(primitive.ObjectID)
	return &review, nil
}

// UpdateReview lets the owning user change rating, title or comment.
func (s *ReviewService) UpdateReview(ctx context.Context, reviewID, userID primitive.ObjectID, rating int, title, comment string) (*models.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrValidation
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var review models.Review
	err := s.collection().FindOneAndUpdate(ctx,
		bson.M{"_id": reviewID, "user": userID},
		bson.M{"$set": bson.M{
			"rating":    rating,
			"title":     title,
			"comment":   comment,
			"updatedAt": time.Now(),
		}},
		opts,
	).Decode(&review)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		logError("UpdateReview", err, map[string]any{"reviewId": reviewID.Hex()})
		return nil, err
	}
	return &review, nil
}

// DeleteReview removes a review owned by userID.
func (s *ReviewService) DeleteReview(ctx context.Context, reviewID, userID primitive.ObjectID) error {
	res, err := s.collection().DeleteOne(ctx, bson.M{"_id": reviewID, "user": userID})
	if err != nil {
		logError("DeleteReview", err, map[string]any{"reviewId": reviewID.Hex()})
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ListProductReviews returns a product's reviews, newest first.
func (s *ReviewService) ListProductReviews(ctx context.Context, productID primitive.ObjectID) ([]models.Review, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.collection().Find(ctx, bson.M{"product": productID}, opts)
	if err != nil {
		logError("ListProductReviews", err, map[string]any{"productId": productID.Hex()})
		return nil, err
	}
	defer cursor.Close(ctx)

	reviews := make([]models.Review, 0)
	if err := cursor.All(ctx, &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}

// AddReply appends a seller reply to a review. Only the current owner of the
// reviewed product may reply, verified live against the catalog.
func (s *ReviewService) AddReply(ctx context.Context, reviewID, sellerID primitive.ObjectID, comment string) (*models.Review, error) {
	if comment == "" {
		return nil, ErrValidation
	}

	var review models.Review
	err := s.collection().FindOne(ctx, bson.M{"_id": reviewID}).Decode(&review)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		logError("AddReply", err, map[string]any{"reviewId": reviewID.Hex()})
		return nil, err
	}

	if err := NewOwnershipVerifier(s.catalog).Verify(ctx, review.ProductID, sellerID); err != nil {
		return nil, err
	}

	now := time.Now()
	reply := models.ReviewReply{SellerID: sellerID, Comment: comment, CreatedAt: now}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err = s.collection().FindOneAndUpdate(ctx,
		bson.M{"_id": reviewID},
		bson.M{
			"$push": bson.M{"replies": reply},
			"$set":  bson.M{"updatedAt": now},
		},
		opts,
	).Decode(&review)
	if err != nil {
		logError("AddReply", err, map[string]any{"reviewId": reviewID.Hex()})
		return nil, err
	}
	return &review, nil
}
