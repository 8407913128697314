package server

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"github.com/diewo77/go-diary/internal/models"
	"github.com/diewo77/go-diary/internal/repo"
	"gorm.io/gorm"
)

func countRows(t *testing.T, conn *gorm.DB, model any) int64 {
	t.Helper()
	var n int64
	if err := conn.Model(model).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}

func seedArticle(t *testing.T, conn *gorm.DB, author *models.User, title string, tags []models.Tag) *models.Article {
	t.Helper()
	a := models.Article{UserID: author.ID, Title: title, Body: "本文"}
	if err := repo.New(conn).Articles.Create(context.Background(), &a, tags); err != nil {
		t.Fatalf("seed article: %v", err)
	}
	return &a
}

func TestAnonymousArticleCreateDenied(t *testing.T) {
	conn, app := setupApp(t)
	c := newClient(t, app)

	rr := c.postMultipart("/create", map[string]string{"title": "t", "body": "b"}, nil, nil)
	expectRedirect(t, rr, "/")
	expectNoticeOnce(t, c, "/", "日記を投稿するにはログインしてください。")
	if n := countRows(t, conn, &models.Article{}); n != 0 {
		t.Fatalf("expected no articles, got %d", n)
	}
}

func TestArticleCreate(t *testing.T) {
	conn, app := setupApp(t)
	createUser(t, conn, "alice@example.com", false)
	c := newClient(t, app)
	c.login("alice@example.com")

	rr := c.postMultipart("/create", map[string]string{"title": "初投稿", "body": "こんにちは"}, nil, pngBytes(t))
	expectRedirect(t, rr, "/")
	expectNoticeOnce(t, c, "/", "日記を投稿しました。")

	var a models.Article
	if err := conn.First(&a).Error; err != nil {
		t.Fatalf("load article: %v", err)
	}
	if a.Title != "初投稿" {
		t.Fatalf("title = %q", a.Title)
	}
	if a.Photo == "" || a.Thumbnail == "" {
		t.Fatalf("photo paths not persisted: %+v", a)
	}
}

func TestArticleCreateRejectsNonImage(t *testing.T) {
	conn, app := setupApp(t)
	createUser(t, conn, "alice@example.com", false)
	c := newClient(t, app)
	c.login("alice@example.com")

	rr := c.postMultipart("/create", map[string]string{"title": "t", "body": "b"}, nil, []byte("this is not an image"))
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rr.Code)
	}
	body := rr.Body.String()
	if !strings.Contains(body, "日記を投稿できませんでした。") {
		t.Fatalf("missing failure notice: %s", body)
	}
	if !strings.Contains(body, "画像ファイルをアップロードしてください。") {
		t.Fatalf("missing photo violation: %s", body)
	}
	if n := countRows(t, conn, &models.Article{}); n != 0 {
		t.Fatalf("expected no partial save, got %d articles", n)
	}
}

func TestArticleCreateKeepsSubmittedValuesOnFailure(t *testing.T) {
	conn, app := setupApp(t)
	createUser(t, conn, "alice@example.com", false)
	c := newClient(t, app)
	c.login("alice@example.com")

	rr := c.postMultipart("/create", map[string]string{"title": "", "body": "残る本文"}, nil, nil)
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "残る本文") {
		t.Fatalf("submitted body lost on re-render: %s", rr.Body.String())
	}
}

func TestArticleUpdateByNonAuthorDenied(t *testing.T) {
	conn, app := setupApp(t)
	author := createUser(t, conn, "author@example.com", false)
	createUser(t, conn, "other@example.com", true) // even staff may not edit
	article := seedArticle(t, conn, author, "元のタイトル", nil)

	c := newClient(t, app)
	c.login("other@example.com")
	rr := c.postMultipart("/update/"+itoa(article.ID), map[string]string{"title": "改ざん", "body": "x"}, nil, nil)
	expectRedirect(t, rr, "/")
	expectNoticeOnce(t, c, "/", "日記を更新できるのは投稿者だけです。")

	var reloaded models.Article
	if err := conn.First(&reloaded, article.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.Title != "元のタイトル" {
		t.Fatalf("article mutated despite denial: %q", reloaded.Title)
	}
}

func TestArticleUpdateReplacesTagSet(t *testing.T) {
	conn, app := setupApp(t)
	author := createUser(t, conn, "author@example.com", false)
	repos := repo.New(conn)
	ctx := context.Background()

	var tags []models.Tag
	for _, s := range []string{"t1", "t2", "t3", "t4"} {
		tag := models.Tag{Name: s, Slug: s}
		if err := repos.Tags.Create(ctx, &tag); err != nil {
			t.Fatalf("tag %s: %v", s, err)
		}
		tags = append(tags, tag)
	}
	article := seedArticle(t, conn, author, "タグ替え", tags[:2])

	c := newClient(t, app)
	c.login("author@example.com")
	rr := c.postMultipart("/update/"+itoa(article.ID),
		map[string]string{"title": "タグ替え", "body": "b"},
		[]string{itoa(tags[2].ID), itoa(tags[3].ID)}, nil)
	expectRedirect(t, rr, "/")
	expectNoticeOnce(t, c, "/", "日記を更新しました。")

	reloaded, err := repos.Articles.ByID(ctx, article.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	got := map[string]bool{}
	for _, tag := range reloaded.Tags {
		got[tag.Slug] = true
	}
	if len(got) != 2 || !got["t3"] || !got["t4"] {
		t.Fatalf("tag set not replaced, got %v", got)
	}
}

func TestArticleDeleteCascadesComments(t *testing.T) {
	conn, app := setupApp(t)
	author := createUser(t, conn, "author@example.com", false)
	article := seedArticle(t, conn, author, "消える日記", nil)
	comment := models.Comment{UserID: author.ID, ArticleID: article.ID, Body: "コメント"}
	if err := conn.Create(&comment).Error; err != nil {
		t.Fatalf("comment: %v", err)
	}

	c := newClient(t, app)
	c.login("author@example.com")
	rr := c.postForm("/delete/"+itoa(article.ID), nil)
	expectRedirect(t, rr, "/")
	expectNoticeOnce(t, c, "/", "日記を削除しました。")

	if n := countRows(t, conn, &models.Article{}); n != 0 {
		t.Fatalf("article survived delete: %d", n)
	}
	if n := countRows(t, conn, &models.Comment{}); n != 0 {
		t.Fatalf("comments survived delete: %d", n)
	}
}

func TestAnonymousCommentRedirectsToLogin(t *testing.T) {
	conn, app := setupApp(t)
	author := createUser(t, conn, "author@example.com", false)
	article := seedArticle(t, conn, author, "t", nil)

	c := newClient(t, app)
	rr := c.postForm("/"+itoa(article.ID), url.Values{"body": {"コメント"}})
	expectRedirect(t, rr, "/login")
	expectNoticeOnce(t, c, "/login", "コメントするにはログインしてください。")
	if n := countRows(t, conn, &models.Comment{}); n != 0 {
		t.Fatalf("expected no comments, got %d", n)
	}
}

func TestCommentCreate(t *testing.T) {
	conn, app := setupApp(t)
	author := createUser(t, conn, "author@example.com", false)
	createUser(t, conn, "reader@example.com", false)
	article := seedArticle(t, conn, author, "t", nil)
	detail := "/" + itoa(article.ID)

	c := newClient(t, app)
	c.login("reader@example.com")

	rr := c.postForm(detail, url.Values{"body": {"   "}})
	expectRedirect(t, rr, detail)
	expectNoticeOnce(t, c, detail, "コメントを入力してください。")
	if n := countRows(t, conn, &models.Comment{}); n != 0 {
		t.Fatalf("blank comment saved: %d", n)
	}

	rr = c.postForm(detail, url.Values{"body": {"よい日記ですね"}})
	expectRedirect(t, rr, detail)
	body := c.get(detail).Body.String()
	if strings.Count(body, "コメントを投稿しました。") != 1 {
		t.Fatalf("missing success notice: %s", body)
	}
	if !strings.Contains(body, "よい日記ですね") {
		t.Fatalf("comment not rendered: %s", body)
	}
	if n := countRows(t, conn, &models.Comment{}); n != 1 {
		t.Fatalf("expected exactly one comment, got %d", n)
	}
}

func TestTagMutationsRequireStaff(t *testing.T) {
	conn, app := setupApp(t)
	createUser(t, conn, "user@example.com", false)

	c := newClient(t, app)
	c.login("user@example.com")
	rr := c.postForm("/tag/config/create", url.Values{"name": {"旅行"}, "slug": {"travel"}})
	expectRedirect(t, rr, "/")
	expectNoticeOnce(t, c, "/", "タグを作成できるのは管理者だけです。")
	if n := countRows(t, conn, &models.Tag{}); n != 0 {
		t.Fatalf("tag created despite denial: %d", n)
	}
}

func TestTagLifecycle(t *testing.T) {
	conn, app := setupApp(t)
	createUser(t, conn, "staff@example.com", true)

	c := newClient(t, app)
	c.login("staff@example.com")

	rr := c.postForm("/tag/config/create", url.Values{"name": {"旅行"}, "slug": {"travel"}})
	expectRedirect(t, rr, "/tag/config/list")
	expectNoticeOnce(t, c, "/tag/config/list", "タグを作成しました。")

	var tag models.Tag
	if err := conn.Where("slug = ?", "travel").First(&tag).Error; err != nil {
		t.Fatalf("load tag: %v", err)
	}

	rr = c.postForm("/tag/config/update/"+itoa(tag.ID), url.Values{"name": {"旅"}, "slug": {"trip"}})
	expectRedirect(t, rr, "/tag/config/list")
	expectNoticeOnce(t, c, "/tag/config/list", "タグを更新しました。")

	rr = c.postForm("/tag/config/delete/"+itoa(tag.ID), nil)
	expectRedirect(t, rr, "/tag/config/list")
	expectNoticeOnce(t, c, "/tag/config/list", "タグを削除しました。")
	if n := countRows(t, conn, &models.Tag{}); n != 0 {
		t.Fatalf("tag survived delete: %d", n)
	}
}

func TestTagSlugValidation(t *testing.T) {
	conn, app := setupApp(t)
	createUser(t, conn, "staff@example.com", true)

	c := newClient(t, app)
	c.login("staff@example.com")
	rr := c.postForm("/tag/config/create", url.Values{"name": {"だめ"}, "slug": {"日本語スラッグ"}})
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "スラッグに使えるのは半角英数字とハイフン、アンダースコアだけです。") {
		t.Fatalf("missing slug violation: %s", rr.Body.String())
	}
	if n := countRows(t, conn, &models.Tag{}); n != 0 {
		t.Fatalf("invalid tag saved: %d", n)
	}
}

func TestTagDuplicateSlugRejected(t *testing.T) {
	conn, app := setupApp(t)
	createUser(t, conn, "staff@example.com", true)

	c := newClient(t, app)
	c.login("staff@example.com")
	form := url.Values{"name": {"旅行"}, "slug": {"travel"}}
	expectRedirect(t, c.postForm("/tag/config/create", form), "/tag/config/list")
	rr := c.postForm("/tag/config/create", form)
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for duplicate, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "すでに使われています。") {
		t.Fatalf("missing duplicate violation: %s", rr.Body.String())
	}
	if n := countRows(t, conn, &models.Tag{}); n != 1 {
		t.Fatalf("expected one tag, got %d", n)
	}
}

func TestUploadedPhotoServedUnderMedia(t *testing.T) {
	conn, app := setupApp(t)
	createUser(t, conn, "alice@example.com", false)
	c := newClient(t, app)
	c.login("alice@example.com")

	rr := c.postMultipart("/create", map[string]string{"title": "写真つき", "body": "b"}, nil, pngBytes(t))
	expectRedirect(t, rr, "/")

	var a models.Article
	if err := conn.First(&a).Error; err != nil {
		t.Fatalf("load article: %v", err)
	}
	for _, rel := range []string{a.Photo, a.Thumbnail} {
		if resp := c.get("/media/" + rel); resp.Code != http.StatusOK {
			t.Errorf("GET /media/%s: expected 200, got %d", rel, resp.Code)
		}
	}
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
