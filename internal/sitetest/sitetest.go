// Package sitetest writes a minimal site tree for tests.
package sitetest

import (
	"os"
	"path/filepath"
	"testing"
)

// Index is a home page template.
const Index = `<!DOCTYPE html>
<html lang="zh-Hant">
<head><meta charset="utf-8"><title>湧沛淨水</title></head>
<body>
<div id="navbar-placeholder"></div>
<div id="products-placeholder"><p>載入中...</p></div>
<script src="js/components.js"></script>
</body>
</html>
`

// Category is a category page template.
const Category = `<!DOCTYPE html>
<html lang="zh-Hant">
<head><meta charset="utf-8"><title>產品分類</title></head>
<body>
<h1 id="category-name">分類</h1>
<div class="row g-4" id="products-container"></div>
</body>
</html>
`

// Product is a product page template.
const Product = `<!DOCTYPE html>
<html lang="zh-Hant">
<head><meta charset="utf-8"><title>產品</title></head>
<body>
<div class="product-gallery"><img src="img/placeholder.jpg"></div>
<h1 class="display-6">產品名稱</h1>
<p class="description">產品詳細描述將在這裡顯示。這裡可以包含產品的主要特點、用途和優勢等信息。</p>
<div id="features-container"></div>
<div class="row" id="specs">
<!-- Specifications Content -->
<div class="col-sm-6 mb-2"><h5>規格</h5></div>
<!-- End Specifications Content -->
</div>
<div id="product-contents"></div>
</body>
</html>
`

// Components is the navigation component script.
const Components = `const Components = {
  navbar: {
    template: ` + "`" + `
      <div class="nav-item dropdown">
        <a href="#" class="nav-link dropdown-toggle" data-bs-toggle="dropdown">產品分類</a>
        <div id='category-dropdown-content' class="dropdown-menu dropdown-menu-end">
          <a href="category-1.html" class="dropdown-item">分類一</a>
        </div>
      </div>
    ` + "`" + `,
  },
};
`

// Files maps relative paths to contents of the sample site.
var Files = map[string]string{
	"index.html":                   Index,
	"about.html":                   "<html><body>關於</body></html>\n",
	"category-template.html":       Category,
	"product-detail-template.html": Product,
	"js/components.js":             Components,
	"js/main.js":                   "console.log('main');\n",
	"css/style.css":                "body { margin: 0; }\n",
	"img/custom/logo.jpg":          "jpg",
	"lib/wow/wow.min.js":           "/* wow */\n",
	"scss/bootstrap.scss":          "$primary: #06a3da;\n",
}

// Write creates the sample site under root.
func Write(t testing.TB, root string) {
	t.Helper()

	for rel, content := range Files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("Failed to create %s: %v", filepath.Dir(path), err)
		}

		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("Failed to write %s: %v", path, err)
		}
	}
}
