package main

import (
	"context"
	"fmt"

	"github.com/Xushengqwer/go-common/core"
	"github.com/brianvoe/gofakeit/v6"
	"go.uber.org/zap"

	"github.com/Xushengqwer/community_service/models/dto"
	"github.com/Xushengqwer/community_service/models/enums"
	"github.com/Xushengqwer/community_service/service"
)

// SeedServices 聚合填充用到的服务层实例。
type SeedServices struct {
	Auth      service.AuthService
	Community service.CommunityService
	Post      service.PostService
	Comment   service.CommentService
}

var seedCategories = []enums.PostCategory{
	enums.CategoryStatus,
	enums.CategoryQnA,
	enums.CategoryBlog,
	enums.CategoryDocument,
	enums.CategoryGame,
}

// Seed 通过服务层填充测试数据：注册用户 → 建社区 → 随机加入 → 发帖 → 评论。
// 走服务层而不是直插数据库，积分、成员计数、冗余快照等副作用才会一致。
func Seed(ctx context.Context, svcs *SeedServices, logger *core.ZapLogger, numUsers, numCommunities, numPosts int) {
	logger.Info("开始填充测试数据 (通过服务层)...",
		zap.Int("users", numUsers), zap.Int("communities", numCommunities), zap.Int("posts", numPosts))

	// --- 1. 注册用户 ---
	userIDs := make([]string, 0, numUsers)
	for i := 0; i < numUsers; i++ {
		authVO, err := svcs.Auth.Register(ctx, &dto.RegisterRequest{
			Email:    fmt.Sprintf("seed_%d_%s", i, gofakeit.Email()),
			Password: gofakeit.Password(true, true, true, false, false, 12),
			Nickname: gofakeit.Username(),
		})
		if err != nil {
			logger.Error("注册测试用户失败", zap.Error(err), zap.Int("index", i))
			continue
		}
		userIDs = append(userIDs, authVO.User.UserID)
	}
	if len(userIDs) == 0 {
		logger.Error("没有成功注册任何用户，填充中止")
		return
	}
	logger.Info("测试用户注册完毕", zap.Int("成功数量", len(userIDs)))

	// --- 2. 创建社区 ---
	communityIDs := make([]uint64, 0, numCommunities)
	for i := 0; i < numCommunities; i++ {
		creatorID := userIDs[i%len(userIDs)]
		communityVO, err := svcs.Community.CreateCommunity(ctx, creatorID, &dto.CreateCommunityRequest{
			Name:        fmt.Sprintf("%s-%d", gofakeit.BuzzWord(), gofakeit.Number(1000, 9999)),
			Description: gofakeit.Sentence(12),
			AvatarURL:   gofakeit.ImageURL(100, 100),
			CoverURL:    gofakeit.ImageURL(640, 240),
			Tags:        []string{gofakeit.HipsterWord(), gofakeit.HipsterWord()},
		})
		if err != nil {
			logger.Error("创建测试社区失败", zap.Error(err), zap.Int("index", i))
			continue
		}
		communityIDs = append(communityIDs, communityVO.ID)
	}
	logger.Info("测试社区创建完毕", zap.Int("成功数量", len(communityIDs)))

	// --- 3. 随机加入社区 ---
	for _, userID := range userIDs {
		for _, communityID := range communityIDs {
			if gofakeit.Bool() {
				continue
			}
			if err := svcs.Community.JoinCommunity(ctx, communityID, userID); err != nil {
				// 创建者已是成员，重复加入是预期内的
				logger.Debug("加入社区跳过", zap.Error(err), zap.Uint64("communityID", communityID))
			}
		}
	}

	// --- 4. 发帖，偶尔挂社区，随后追加几条评论 ---
	created := 0
	for i := 0; i < numPosts; i++ {
		authorID := userIDs[gofakeit.Number(0, len(userIDs)-1)]
		req := &dto.CreatePostRequest{
			Title:    gofakeit.Sentence(gofakeit.Number(4, 10)),
			Content:  gofakeit.Paragraph(2, 4, 15, "\n\n"),
			Category: seedCategories[gofakeit.Number(0, len(seedCategories)-1)],
			Tags:     []string{gofakeit.HipsterWord()},
		}
		if len(communityIDs) > 0 && gofakeit.Bool() {
			communityID := communityIDs[gofakeit.Number(0, len(communityIDs)-1)]
			req.CommunityID = &communityID
		}

		postVO, err := svcs.Post.CreatePost(ctx, authorID, req)
		if err != nil {
			// 挂了未加入的社区会被拒绝，换成不挂社区重试一次
			req.CommunityID = nil
			postVO, err = svcs.Post.CreatePost(ctx, authorID, req)
			if err != nil {
				logger.Error("创建测试帖子失败", zap.Error(err), zap.Int("index", i))
				continue
			}
		}
		created++

		for j := 0; j < gofakeit.Number(0, 3); j++ {
			commenterID := userIDs[gofakeit.Number(0, len(userIDs)-1)]
			if _, err := svcs.Comment.AddComment(ctx, postVO.ID, commenterID, &dto.AddCommentRequest{
				Content: gofakeit.Sentence(gofakeit.Number(5, 15)),
			}); err != nil {
				logger.Error("创建测试评论失败", zap.Error(err), zap.Uint64("postID", postVO.ID))
			}
		}
	}

	logger.Info("测试数据填充完毕 (通过服务层)。", zap.Int("帖子成功数量", created))
}
