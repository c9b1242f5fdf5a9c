package database

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func EnsureUserIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	emailIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "email", Value: 1}},
		Options: options.Index().
			SetName("email_unique").
			SetUnique(true),
	}

	log.Println("EnsureUserIndexes: creating email_unique index")
	_, err := db.Collection("users").Indexes().CreateOne(ctx, emailIndex)
	if err != nil {
		log.Println("EnsureUserIndexes: email index error:", err)
		return err
	}
	return nil
}

func EnsureOrderIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("userId_createdAt"),
		},
		{
			Keys:    bson.D{{Key: "items.productId", Value: 1}},
			Options: options.Index().SetName("items_productId"),
		},
	}

	log.Println("EnsureOrderIndexes: creating order indexes")
	_, err := db.Collection("orders").Indexes().CreateMany(ctx, indexes)
	if err != nil {
		log.Println("EnsureOrderIndexes: order index error:", err)
		return err
	}
	return nil
}

func EnsureSellerOrderIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "sellerId", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("sellerId_createdAt"),
		},
		{
			Keys:    bson.D{{Key: "orderId", Value: 1}},
			Options: options.Index().SetName("orderId_index"),
		},
		{
			Keys:    bson.D{{Key: "productId", Value: 1}},
			Options: options.Index().SetName("productId_index"),
		},
	}

	log.Println("EnsureSellerOrderIndexes: creating sellerorder indexes")
	_, err := db.Collection("sellerorders").Indexes().CreateMany(ctx, indexes)
	if err != nil {
		log.Println("EnsureSellerOrderIndexes: sellerorder index error:", err)
		return err
	}
	return nil
}

func EnsureCartIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// One active cart per user is the checkout precondition.
	activeCartIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "userId", Value: 1}},
		Options: options.Index().
			SetName("userId_active_unique").
			SetUnique(true).
			SetPartialFilterExpression(bson.M{"status": "active"}),
	}

	log.Println("EnsureCartIndexes: creating userId_active_unique index")
	_, err := db.Collection("carts").Indexes().CreateOne(ctx, activeCartIndex)
	if err != nil {
		log.Println("EnsureCartIndexes: cart index error:", err)
		return err
	}
	return nil
}

func EnsureResellProductIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// One listing per (seller, original product) and unique titles within a
	// seller's listings.
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "seller", Value: 1}, {Key: "originalProduct", Value: 1}},
			Options: options.Index().
				SetName("seller_originalProduct_unique").
				SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "seller", Value: 1}, {Key: "title", Value: 1}},
			Options: options.Index().
				SetName("seller_title_unique").
				SetUnique(true),
		},
	}

	log.Println("EnsureResellProductIndexes: creating resellproduct indexes")
	_, err := db.Collection("resellproducts").Indexes().CreateMany(ctx, indexes)
	if err != nil {
		log.Println("EnsureResellProductIndexes: resellproduct index error:", err)
		return err
	}
	return nil
}

func EnsureNegotiatedProductIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	sellerIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "seller", Value: 1}, {Key: "createdAt", Value: -1}},
		Options: options.Index().SetName("seller_createdAt"),
	}

	log.Println("EnsureNegotiatedProductIndexes: creating negotiatedproduct index")
	_, err := db.Collection("negotiatedproducts").Indexes().CreateOne(ctx, sellerIndex)
	if err != nil {
		log.Println("EnsureNegotiatedProductIndexes: negotiatedproduct index error:", err)
		return err
	}
	return nil
}

func EnsureProductIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	sellerIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "seller", Value: 1}, {Key: "status", Value: 1}},
		Options: options.Index().SetName("seller_status"),
	}

	log.Println("EnsureProductIndexes: creating seller_status index")
	_, err := db.Collection("products").Indexes().CreateOne(ctx, sellerIndex)
	if err != nil {
		log.Println("EnsureProductIndexes: seller index error:", err)
		return err
	}
	return nil
}
