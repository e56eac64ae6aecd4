package mysql

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Xushengqwer/community_service/models/entities"
)

// 退出社区必须物理删除成员行: 软删墓碑会占着 uk_community_user 唯一键，退出后无法再次加入。
// 断言 加入→退出→再加入 的完整循环，退出那步必须是 DELETE 而不是 UPDATE deleted_at。
func TestRemoveMemberFreesUniqueKey(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCommunityRepository(db, nil)
	ctx := context.Background()

	mock.ExpectExec("INSERT INTO `community_members`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("DELETE FROM `community_members` WHERE community_id = \\? AND user_id = \\?").
		WithArgs(uint64(5), "user-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO `community_members`").
		WillReturnResult(sqlmock.NewResult(2, 1))

	require.NoError(t, repo.AddMember(ctx, db, &entities.CommunityMember{
		CommunityID: 5,
		UserID:      "user-1",
		Role:        entities.RoleMember,
	}))

	removed, err := repo.RemoveMember(ctx, db, 5, "user-1")
	require.NoError(t, err)
	assert.True(t, removed)

	require.NoError(t, repo.AddMember(ctx, db, &entities.CommunityMember{
		CommunityID: 5,
		UserID:      "user-1",
		Role:        entities.RoleMember,
	}))

	assert.NoError(t, mock.ExpectationsWereMet())
}

// 重复退出: 不报错、返回 false，服务层据此跳过成员数回退，保持幂等。
func TestRemoveMemberMissingRow(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCommunityRepository(db, nil)

	mock.ExpectExec("DELETE FROM `community_members` WHERE community_id = \\? AND user_id = \\?").
		WithArgs(uint64(5), "user-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	removed, err := repo.RemoveMember(context.Background(), db, 5, "user-1")
	require.NoError(t, err)
	assert.False(t, removed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// 重复加入触发 1062 唯一键冲突时，驱动错误必须被翻译成 gorm.ErrDuplicatedKey，
// 服务层靠它把重复加入映射为 ErrAlreadyMember 而不是 500。
func TestAddMemberDuplicateTranslated(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCommunityRepository(db, nil)

	mock.ExpectExec("INSERT INTO `community_members`").
		WillReturnError(&mysqldriver.MySQLError{
			Number:  1062,
			Message: "Duplicate entry '5-user-1' for key 'uk_community_user'",
		})

	err := repo.AddMember(context.Background(), db, &entities.CommunityMember{
		CommunityID: 5,
		UserID:      "user-1",
		Role:        entities.RoleMember,
	})
	assert.True(t, errors.Is(err, gorm.ErrDuplicatedKey))
	assert.NoError(t, mock.ExpectationsWereMet())
}
