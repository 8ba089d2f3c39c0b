// internal/docstore/firestore.go
package docstore

import (
	"context"
	"fmt"
	"log/slog"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// firestoreStore は Cloud Firestore を使った Store の実装
type firestoreStore struct {
	client *firestore.Client
	logger *slog.Logger
}

// NewFirestoreStore は Firestore クライアントを生成して Store を返します。
// credentialsFile が空の場合は Application Default Credentials を使います。
func NewFirestoreStore(ctx context.Context, projectID, credentialsFile string, logger *slog.Logger) (Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := firestore.NewClient(ctx, projectID, opts...)
	if err != nil {
		logger.Error("Failed to create Firestore client", slog.String("project_id", projectID), slog.Any("error", err))
		return nil, fmt.Errorf("docstore.NewFirestoreStore: %w", err)
	}

	logger.Info("Firestore client created", slog.String("project_id", projectID))
	return &firestoreStore{client: client, logger: logger}, nil
}

func (s *firestoreStore) GetDoc(ctx context.Context, path string) (map[string]interface{}, error) {
	snap, err := s.client.Doc(path).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("firestoreStore.GetDoc(%s): %w", path, err)
	}
	return snap.Data(), nil
}

func (s *firestoreStore) SetDoc(ctx context.Context, path string, data map[string]interface{}) error {
	if _, err := s.client.Doc(path).Set(ctx, data); err != nil {
		return fmt.Errorf("firestoreStore.SetDoc(%s): %w", path, err)
	}
	return nil
}

func (s *firestoreStore) UpdateDoc(ctx context.Context, path string, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	// firestore.Update は対象ドキュメントが無い場合 NotFound を返す。
	// 暗黙のupsertを許さない仕様のためこの挙動に乗る。
	fsUpdates := make([]firestore.Update, 0, len(updates))
	for field, value := range updates {
		fsUpdates = append(fsUpdates, firestore.Update{Path: field, Value: value})
	}
	if _, err := s.client.Doc(path).Update(ctx, fsUpdates); err != nil {
		if status.Code(err) == codes.NotFound {
			return ErrNotFound
		}
		return fmt.Errorf("firestoreStore.UpdateDoc(%s): %w", path, err)
	}
	return nil
}

func (s *firestoreStore) DeleteDoc(ctx context.Context, path string) error {
	// Firestore の Delete は対象が無くても成功する（冪等）
	if _, err := s.client.Doc(path).Delete(ctx); err != nil {
		return fmt.Errorf("firestoreStore.DeleteDoc(%s): %w", path, err)
	}
	return nil
}

func (s *firestoreStore) AddDoc(ctx context.Context, collectionPath string, data map[string]interface{}) (string, error) {
	ref, _, err := s.client.Collection(collectionPath).Add(ctx, data)
	if err != nil {
		return "", fmt.Errorf("firestoreStore.AddDoc(%s): %w", collectionPath, err)
	}
	return ref.ID, nil
}

func (s *firestoreStore) buildQuery(q Query) firestore.Query {
	fq := s.client.Collection(q.CollectionPath).Query
	for _, f := range q.Filters {
		fq = fq.Where(f.Field, f.Op, f.Value)
	}
	for _, o := range q.Orders {
		dir := firestore.Asc
		if o.Desc {
			dir = firestore.Desc
		}
		fq = fq.OrderBy(o.Field, dir)
	}
	return fq
}

func (s *firestoreStore) GetDocs(ctx context.Context, q Query) ([]Document, error) {
	iter := s.buildQuery(q).Documents(ctx)
	defer iter.Stop()

	var docs []Document
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("firestoreStore.GetDocs(%s): %w", q.CollectionPath, err)
		}
		docs = append(docs, Document{ID: snap.Ref.ID, Data: snap.Data()})
	}
	return docs, nil
}

func (s *firestoreStore) Snapshots(ctx context.Context, q Query, fn SnapshotFunc) (Unsubscribe, error) {
	// 購読の寿命はリクエストではなく Unsubscribe が握るため、
	// 呼び出し元の ctx のキャンセルからは切り離す。
	sctx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	snapIter := s.buildQuery(q).Snapshots(sctx)

	go func() {
		for {
			snap, err := snapIter.Next()
			if err != nil {
				if status.Code(err) != codes.Canceled {
					s.logger.Error("Snapshot listener stopped with error",
						slog.String("collection", q.CollectionPath),
						slog.Any("error", err),
					)
				}
				return
			}

			var docs []Document
			docIter := snap.Documents
			for {
				d, err := docIter.Next()
				if err == iterator.Done {
					break
				}
				if err != nil {
					s.logger.Error("Failed to read snapshot document",
						slog.String("collection", q.CollectionPath),
						slog.Any("error", err),
					)
					return
				}
				docs = append(docs, Document{ID: d.Ref.ID, Data: d.Data()})
			}
			fn(docs)
		}
	}()

	return func() {
		snapIter.Stop()
		cancel()
	}, nil
}

func (s *firestoreStore) DocSnapshots(ctx context.Context, path string, fn DocSnapshotFunc) (Unsubscribe, error) {
	sctx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	snapIter := s.client.Doc(path).Snapshots(sctx)

	go func() {
		for {
			snap, err := snapIter.Next()
			if err != nil {
				if status.Code(err) != codes.Canceled {
					s.logger.Error("Document listener stopped with error",
						slog.String("path", path),
						slog.Any("error", err),
					)
				}
				return
			}
			if !snap.Exists() {
				fn(nil)
				continue
			}
			fn(snap.Data())
		}
	}()

	return func() {
		snapIter.Stop()
		cancel()
	}, nil
}

func (s *firestoreStore) Close() error {
	return s.client.Close()
}
