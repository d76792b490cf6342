package firestore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	domain "github.com/brandfolio/api/internal/domain"
	pfirestore "github.com/brandfolio/api/internal/platform/firestore"
	"github.com/brandfolio/api/internal/repositories"
)

const wishlistCollectionPattern = "visitors/%s/wishlist"

// WishlistRepository persists saved products per visitor.
type WishlistRepository struct {
	provider *pfirestore.Provider
}

// NewWishlistRepository constructs a Firestore-backed wishlist repository.
func NewWishlistRepository(provider *pfirestore.Provider) (*WishlistRepository, error) {
	if provider == nil {
		return nil, errors.New("wishlist repository requires firestore provider")
	}
	return &WishlistRepository{provider: provider}, nil
}

// List returns saved items ordered by addition time, oldest first.
func (r *WishlistRepository) List(ctx context.Context, visitorID string) ([]domain.WishlistItem, error) {
	coll, err := r.collection(ctx, visitorID)
	if err != nil {
		return nil, err
	}

	iter := coll.OrderBy("addedAt", firestore.Asc).OrderBy(firestore.DocumentID, firestore.Asc).Documents(ctx)
	defer iter.Stop()

	var items []domain.WishlistItem
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, pfirestore.WrapError("wishlist.list", err)
		}
		item, err := decodeWishlistDocument(snap)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// Put stores the item when absent. Adding a product that is already saved
// preserves the original addition time and reports created=false.
func (r *WishlistRepository) Put(ctx context.Context, visitorID string, productID string, addedAt time.Time) (bool, error) {
	coll, err := r.collection(ctx, visitorID)
	if err != nil {
		return false, err
	}

	productID = strings.TrimSpace(productID)
	if productID == "" {
		return false, errors.New("wishlist repository: product id is required")
	}

	created := false
	err = r.provider.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		docRef := coll.Doc(productID)
		if _, err := tx.Get(docRef); err == nil {
			created = false
			return nil
		} else if status.Code(err) != codes.NotFound {
			return err
		}

		doc := wishlistDocument{
			ProductID: productID,
			AddedAt:   addedAt.UTC(),
		}
		if err := tx.Set(docRef, doc); err != nil {
			return err
		}
		created = true
		return nil
	})
	if err != nil {
		return false, pfirestore.WrapError("wishlist.put", err)
	}
	return created, nil
}

// Delete removes the item document, reporting whether it existed. The Exists
// precondition turns a missing document into a NotFound status instead of a
// silent no-op, so callers can tell an actual removal apart.
func (r *WishlistRepository) Delete(ctx context.Context, visitorID string, productID string) (bool, error) {
	coll, err := r.collection(ctx, visitorID)
	if err != nil {
		return false, err
	}
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return false, errors.New("wishlist repository: product id is required")
	}
	if _, err := coll.Doc(productID).Delete(ctx, firestore.Exists); err != nil {
		if status.Code(err) == codes.NotFound {
			return false, nil
		}
		return false, pfirestore.WrapError("wishlist.delete", err)
	}
	return true, nil
}

// Clear removes every item for the visitor in batches.
func (r *WishlistRepository) Clear(ctx context.Context, visitorID string) error {
	coll, err := r.collection(ctx, visitorID)
	if err != nil {
		return err
	}
	client, err := r.provider.Client(ctx)
	if err != nil {
		return err
	}

	const batchSize = 100
	for {
		iter := coll.Limit(batchSize).Documents(ctx)
		snaps, err := iter.GetAll()
		if err != nil {
			return pfirestore.WrapError("wishlist.clear", err)
		}
		if len(snaps) == 0 {
			return nil
		}

		bulk := client.BulkWriter(ctx)
		for _, snap := range snaps {
			if _, err := bulk.Delete(snap.Ref); err != nil {
				bulk.End()
				return pfirestore.WrapError("wishlist.clear", err)
			}
		}
		bulk.End()

		if len(snaps) < batchSize {
			return nil
		}
	}
}

func (r *WishlistRepository) collection(ctx context.Context, visitorID string) (*firestore.CollectionRef, error) {
	if r == nil || r.provider == nil {
		return nil, errors.New("wishlist repository not initialised")
	}
	id := strings.TrimSpace(visitorID)
	if id == "" {
		return nil, errors.New("wishlist repository: visitor id is required")
	}
	client, err := r.provider.Client(ctx)
	if err != nil {
		return nil, err
	}
	path := fmt.Sprintf(wishlistCollectionPattern, id)
	return client.Collection(path), nil
}

func decodeWishlistDocument(snapshot *firestore.DocumentSnapshot) (domain.WishlistItem, error) {
	var doc wishlistDocument
	if err := snapshot.DataTo(&doc); err != nil {
		return domain.WishlistItem{}, fmt.Errorf("decode wishlist item %s: %w", snapshot.Ref.ID, err)
	}
	productID := doc.ProductID
	if productID == "" {
		productID = snapshot.Ref.ID
	}
	return domain.WishlistItem{
		ProductID: productID,
		AddedAt:   doc.AddedAt,
	}, nil
}

type wishlistDocument struct {
	ProductID string    `firestore:"productId"`
	AddedAt   time.Time `firestore:"addedAt"`
}

// Ensure interface compliance.
var _ repositories.WishlistRepository = (*WishlistRepository)(nil)
