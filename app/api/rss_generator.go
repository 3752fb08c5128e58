package api

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/MinPika/ignition-automation/app/cfg"
	"github.com/MinPika/ignition-automation/app/database"
)

// Generator renders the published-posts feed for a site as RSS 2.0.
type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

func (g *Generator) Run(site database.Site, posts []database.Post) (string, error) {
	var buf bytes.Buffer

	buf.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	buf.WriteString("\n")
	buf.WriteString(`<rss version="2.0" xmlns:content="http://purl.org/rss/1.0/modules/content/" xmlns:atom="http://www.w3.org/2005/Atom">`)
	buf.WriteString("\n  <channel>\n")

	title := site.Title
	if title == "" {
		title = site.Name
	}
	g.writeElement(&buf, "title", title, 4)
	g.writeElement(&buf, "link", site.SiteURL, 4)
	description := site.Description
	if description == "" {
		description = fmt.Sprintf("Published posts for %s", site.Name)
	}
	g.writeElement(&buf, "description", description, 4)

	var selfLink string
	if cfg.Get().BaseUrl != "" {
		selfLink = fmt.Sprintf("%s/sites/%s/feed", cfg.Get().BaseUrl, site.Name)
	} else {
		selfLink = fmt.Sprintf("http://localhost:%s/sites/%s/feed", cfg.Get().Port, site.Name)
	}
	buf.WriteString(fmt.Sprintf("    <atom:link href=\"%s\" rel=\"self\" type=\"application/rss+xml\" />\n",
		html.EscapeString(selfLink)))

	lastBuildDate := time.Now().In(time.Local)
	if len(posts) > 0 && posts[0].PublishedAt != nil && *posts[0].PublishedAt != (time.Time{}) {
		lastBuildDate = *posts[0].PublishedAt
	}

	g.writeElement(&buf, "lastBuildDate", lastBuildDate.Format(time.RFC1123Z), 4)
	g.writeElement(&buf, "generator", fmt.Sprintf("Ignition/%s", cfg.Get().Version), 4)

	for _, post := range posts {
		g.writePost(&buf, site, post)
	}

	buf.WriteString("  </channel>\n</rss>")

	return buf.String(), nil
}

func (g *Generator) writePost(buf *bytes.Buffer, site database.Site, post database.Post) {
	buf.WriteString("    <item>\n")

	link := g.postLink(site, post)

	if link != "" {
		buf.WriteString("      <guid isPermaLink=\"true\">")
		xml.EscapeText(buf, []byte(link))
		buf.WriteString("</guid>\n")
	} else {
		buf.WriteString("      <guid isPermaLink=\"false\">")
		xml.EscapeText(buf, []byte(post.ID))
		buf.WriteString("</guid>\n")
	}

	if post.Title != "" {
		g.writeElement(buf, "title", post.Title, 6)
	}

	if link != "" {
		g.writeElement(buf, "link", link, 6)
	}

	description := post.MetaDescription
	if description == "" {
		description = "No description available"
	}
	g.writeElement(buf, "description", description, 6)

	if post.HTML != "" {
		buf.WriteString("      <content:encoded><![CDATA[")
		buf.WriteString(post.HTML)
		buf.WriteString("]]></content:encoded>\n")
	}

	if post.PublishedAt != nil {
		g.writeElement(buf, "pubDate", post.PublishedAt.Format(time.RFC1123Z), 6)
	}

	if post.Keyword != "" {
		g.writeElement(buf, "category", post.Keyword, 6)
	}

	buf.WriteString("    </item>\n")
}

func (g *Generator) postLink(site database.Site, post database.Post) string {
	if site.SiteURL == "" || post.Slug == "" {
		return ""
	}
	return strings.TrimSuffix(site.SiteURL, "/") + "/" + post.Slug
}

func (g *Generator) writeElement(buf *bytes.Buffer, tag, content string, indent int) {
	if content == "" {
		return
	}

	for i := 0; i < indent; i++ {
		buf.WriteByte(' ')
	}

	buf.WriteString("<")
	buf.WriteString(tag)
	buf.WriteString(">")
	xml.EscapeText(buf, []byte(content))
	buf.WriteString("</")
	buf.WriteString(tag)
	buf.WriteString(">\n")
}
