package mysql

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Xushengqwer/community_service/models/entities"
)

// newMockDB 基于 sqlmock 打开一个 gorm 连接，SQL 走期望断言而不是真实数据库。
// TranslateError 与生产配置保持一致，唯一键冲突要能翻译成 gorm.ErrDuplicatedKey。
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(gormmysql.New(gormmysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
		Logger:                 gormlogger.Discard,
	})
	require.NoError(t, err)
	return db, mock
}

// 取消赞必须物理删除: 软删墓碑会占着 uk_post_user 唯一键，之后再点赞永远插入冲突。
// 这里断言 赞→取消→再赞 的完整循环，取消那步必须是 DELETE 而不是 UPDATE deleted_at。
func TestDeletePostLikeFreesUniqueKey(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewLikeRepository(db, nil)
	ctx := context.Background()

	mock.ExpectExec("INSERT INTO `post_likes`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("DELETE FROM `post_likes` WHERE post_id = \\? AND user_id = \\?").
		WithArgs(uint64(7), "user-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO `post_likes`").
		WillReturnResult(sqlmock.NewResult(2, 1))

	require.NoError(t, repo.CreatePostLike(ctx, db, &entities.PostLike{PostID: 7, UserID: "user-1"}))

	removed, err := repo.DeletePostLike(ctx, db, 7, "user-1")
	require.NoError(t, err)
	assert.True(t, removed)

	require.NoError(t, repo.CreatePostLike(ctx, db, &entities.PostLike{PostID: 7, UserID: "user-1"}))

	assert.NoError(t, mock.ExpectationsWereMet())
}

// 取消一个不存在的赞: 不报错、返回 false，服务层据此跳过计数回退。
func TestDeletePostLikeMissingRow(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewLikeRepository(db, nil)

	mock.ExpectExec("DELETE FROM `post_likes` WHERE post_id = \\? AND user_id = \\?").
		WithArgs(uint64(7), "user-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	removed, err := repo.DeletePostLike(context.Background(), db, 7, "user-1")
	require.NoError(t, err)
	assert.False(t, removed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// 评论点赞的取消同样必须物理删除，腾出 uk_comment_user。
func TestDeleteCommentLikeFreesUniqueKey(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewLikeRepository(db, nil)
	ctx := context.Background()

	mock.ExpectExec("INSERT INTO `comment_likes`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("DELETE FROM `comment_likes` WHERE comment_id = \\? AND user_id = \\?").
		WithArgs(uint64(3), "user-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO `comment_likes`").
		WillReturnResult(sqlmock.NewResult(2, 1))

	require.NoError(t, repo.CreateCommentLike(ctx, db, &entities.CommentLike{CommentID: 3, UserID: "user-1"}))

	removed, err := repo.DeleteCommentLike(ctx, db, 3, "user-1")
	require.NoError(t, err)
	assert.True(t, removed)

	require.NoError(t, repo.CreateCommentLike(ctx, db, &entities.CommentLike{CommentID: 3, UserID: "user-1"}))

	assert.NoError(t, mock.ExpectationsWereMet())
}
