// Package i18n holds the user-facing message catalogs. The diary's
// canonical language is Japanese; English is provided as a secondary
// catalog. Unknown codes fall back to the code itself so missing
// translations surface in the page instead of disappearing.
package i18n

import "strings"

// DefaultLang is used when no supported language can be negotiated.
const DefaultLang = "ja"

var catalogs = map[string]map[string]string{
	"ja": {
		// notices
		"article_create_denied":  "日記を投稿するにはログインしてください。",
		"article_create_success": "日記を投稿しました。",
		"article_create_failure": "日記を投稿できませんでした。",
		"article_update_denied":  "日記を更新できるのは投稿者だけです。",
		"article_update_success": "日記を更新しました。",
		"article_update_failure": "日記を編集できませんでした。",
		"article_delete_denied":  "日記を削除できるのは投稿者だけです。",
		"article_delete_success": "日記を削除しました。",
		"comment_create_denied":  "コメントするにはログインしてください。",
		"comment_create_success": "コメントを投稿しました。",
		"comment_body_required":  "コメントを入力してください。",
		"tag_create_denied":      "タグを作成できるのは管理者だけです。",
		"tag_create_success":     "タグを作成しました。",
		"tag_update_denied":      "タグを更新できるのは管理者だけです。",
		"tag_update_success":     "タグを更新しました。",
		"tag_delete_denied":      "タグを削除できるのは管理者だけです。",
		"tag_delete_success":     "タグを削除しました。",
		"login_failed":           "メールアドレスまたはパスワードが正しくありません。",

		// field-level validation
		"required":     "入力してください。",
		"too_long":     "長すぎます。",
		"already_exists": "すでに使われています。",
		"invalid_slug": "スラッグに使えるのは半角英数字とハイフン、アンダースコアだけです。",
		"not_image":    "画像ファイルをアップロードしてください。",

		// labels
		"site_title":     "日記",
		"article_list":   "日記一覧",
		"tag_list":       "タグ一覧",
		"create_article": "日記を書く",
		"create_tag":     "タグを作成",
		"edit":           "編集",
		"no_entries":     "まだ日記はありません。",
		"title":          "タイトル",
		"body":           "本文",
		"photo":          "写真",
		"tags":           "タグ",
		"name":           "タグ名",
		"slug":           "スラッグ",
		"comments":       "コメント",
		"post":           "投稿",
		"save":           "保存",
		"delete":         "削除",
		"delete_confirm": "本当に削除しますか？",
		"email":          "メールアドレス",
		"password":       "パスワード",
		"login":          "ログイン",
		"logout":         "ログアウト",
	},
	"en": {
		"article_create_denied":  "Log in to post a diary entry.",
		"article_create_success": "Diary posted.",
		"article_create_failure": "Could not post the diary entry.",
		"article_update_denied":  "Only the author may update this diary entry.",
		"article_update_success": "Diary updated.",
		"article_update_failure": "Could not edit the diary entry.",
		"article_delete_denied":  "Only the author may delete this diary entry.",
		"article_delete_success": "Diary deleted.",
		"comment_create_denied":  "Log in to comment.",
		"comment_create_success": "Comment posted.",
		"comment_body_required":  "Enter a comment.",
		"tag_create_denied":      "Only an administrator may create tags.",
		"tag_create_success":     "Tag created.",
		"tag_update_denied":      "Only an administrator may update tags.",
		"tag_update_success":     "Tag updated.",
		"tag_delete_denied":      "Only an administrator may delete tags.",
		"tag_delete_success":     "Tag deleted.",
		"login_failed":           "Invalid email or password.",

		"required":       "Required.",
		"too_long":       "Too long.",
		"already_exists": "Already in use.",
		"invalid_slug":   "Slugs may only contain letters, numbers, hyphens and underscores.",
		"not_image":      "Upload an image file.",

		"site_title":     "Diary",
		"article_list":   "Entries",
		"tag_list":       "Tags",
		"create_article": "New entry",
		"create_tag":     "New tag",
		"edit":           "Edit",
		"no_entries":     "No entries yet.",
		"title":          "Title",
		"body":           "Body",
		"photo":          "Photo",
		"tags":           "Tags",
		"name":           "Name",
		"slug":           "Slug",
		"comments":       "Comments",
		"post":           "Post",
		"save":           "Save",
		"delete":         "Delete",
		"delete_confirm": "Really delete?",
		"email":          "Email",
		"password":       "Password",
		"login":          "Log in",
		"logout":         "Log out",
	},
}

// T translates a message code for the given language. Unknown languages
// fall back to the default catalog; unknown codes fall back to the code.
func T(lang, code string) string {
	if c, ok := catalogs[lang]; ok {
		if msg, ok := c[code]; ok {
			return msg
		}
	}
	if msg, ok := catalogs[DefaultLang][code]; ok {
		return msg
	}
	return code
}

// Supported reports whether a language has a catalog.
func Supported(lang string) bool {
	_, ok := catalogs[lang]
	return ok
}

// DetectLanguage picks a supported language from an Accept-Language
// header value. Only the primary subtag of the first entry is
// considered; anything unsupported yields the default.
func DetectLanguage(acceptLanguage string) string {
	first := acceptLanguage
	if i := strings.IndexAny(first, ",;"); i >= 0 {
		first = first[:i]
	}
	first = strings.TrimSpace(first)
	if i := strings.Index(first, "-"); i >= 0 {
		first = first[:i]
	}
	first = strings.ToLower(first)
	if Supported(first) {
		return first
	}
	return DefaultLang
}
