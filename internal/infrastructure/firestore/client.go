package firestore

import (
	"context"
	"os"

	"cloud.google.com/go/firestore"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

type FirestoreClient struct {
	client *firestore.Client
}

// NewFirestoreClient Firestoreクライアントを作成する。
// credentialsFile が空または存在しない場合、エミュレータ接続時、Cloud Run 上ではデフォルト認証を使う
func NewFirestoreClient(ctx context.Context, projectID, credentialsFile string) (*FirestoreClient, error) {
	if projectID == "" {
		return nil, eris.New("firestore: project id が設定されていません")
	}
	log := zap.L().With(zap.String("project_id", projectID))

	var opts []option.ClientOption
	switch {
	case os.Getenv("FIRESTORE_EMULATOR_HOST") != "":
		log.Info("🧪 Firestoreエミュレータを使用", zap.String("host", os.Getenv("FIRESTORE_EMULATOR_HOST")))
	case os.Getenv("K_SERVICE") != "":
		log.Info("☁️ Cloud Run環境: デフォルト認証を使用")
	case credentialsFile != "":
		if _, err := os.Stat(credentialsFile); err != nil {
			log.Warn("⚠️ 認証ファイルが見つからないためデフォルト認証を使用", zap.String("file", credentialsFile))
		} else {
			log.Info("📄 認証ファイルを使用", zap.String("file", credentialsFile))
			opts = append(opts, option.WithCredentialsFile(credentialsFile))
		}
	}

	client, err := firestore.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, eris.Wrap(err, "firestore: クライアントの作成に失敗")
	}
	log.Info("✅ Firestore client initialized")
	return &FirestoreClient{client: client}, nil
}

func (fc *FirestoreClient) Close() error {
	return fc.client.Close()
}

func (fc *FirestoreClient) GetClient() *firestore.Client {
	return fc.client
}
