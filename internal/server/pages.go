package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/iwvelando/arr-planner/internal/arrplanner"
	"github.com/iwvelando/arr-planner/internal/content"
	"github.com/iwvelando/arr-planner/internal/querystate"
	"github.com/iwvelando/arr-planner/pkg/constants"
	"github.com/iwvelando/arr-planner/pkg/mathutil"
	"github.com/iwvelando/arr-planner/pkg/output"
)

func (h *handler) handleHome(c *gin.Context) {
	posts := h.publishedPosts()
	if len(posts) > constants.HomePagePosts {
		posts = posts[:constants.HomePagePosts]
	}

	c.HTML(http.StatusOK, "home", gin.H{
		"Title":    "Latest",
		"Posts":    posts,
		"Projects": h.index.Projects,
	})
}

func (h *handler) handleBlog(c *gin.Context) {
	h.renderBlogPage(c, 1)
}

func (h *handler) handleBlogPage(c *gin.Context) {
	page, err := strconv.Atoi(c.Param("page"))
	if err != nil || page < 1 {
		h.renderNotFound(c)
		return
	}
	if page == 1 {
		c.Redirect(http.StatusMovedPermanently, "/blog")
		return
	}
	h.renderBlogPage(c, page)
}

func (h *handler) renderBlogPage(c *gin.Context, number int) {
	posts := h.publishedPosts()
	page := content.Paginate(posts, number, constants.PostsPerPage)
	if number > 1 && page.CurrentPage != number {
		h.renderNotFound(c)
		return
	}

	c.HTML(http.StatusOK, "blog", gin.H{
		"Title":    "All Posts",
		"Page":     page,
		"Tags":     content.TagCounts(posts),
		"BasePath": "/blog",
	})
}

func (h *handler) handlePost(c *gin.Context) {
	post, ok := h.index.Find(c.Param("slug"))
	if !ok || (h.production && post.Draft) {
		h.renderNotFound(c)
		return
	}

	c.HTML(http.StatusOK, "post", gin.H{
		"Title": post.Title,
		"Post":  post,
	})
}

func (h *handler) handleTags(c *gin.Context) {
	c.HTML(http.StatusOK, "tags", gin.H{
		"Title": "Tags",
		"Tags":  content.TagCounts(h.publishedPosts()),
	})
}

func (h *handler) handleTag(c *gin.Context) {
	slug := c.Param("tag")
	posts := h.publishedPosts()
	tagged := content.ByTag(posts, slug)
	if len(tagged) == 0 {
		h.renderNotFound(c)
		return
	}

	label := slug
	for _, tc := range content.TagCounts(posts) {
		if tc.Slug == slug {
			label = tc.Label
			break
		}
	}

	c.HTML(http.StatusOK, "tag", gin.H{
		"Title": label,
		"Posts": tagged,
		"Tags":  content.TagCounts(posts),
	})
}

// plannerField is one input of the planner form.
type plannerField struct {
	Name  string
	Label string
	Value string
	Step  string
	Unit  string
}

func (h *handler) handlePlanner(c *gin.Context) {
	state := querystate.Decode(c.Request.URL.Query())
	result := output.Evaluate(state)
	values := state.Values()

	fields := []plannerField{
		{Name: constants.QueryARR, Label: "ARR target", Step: "any", Unit: "$"},
		{Name: constants.QueryMonths, Label: "Months to get there", Step: "1"},
		{Name: constants.QueryPrice, Label: "Monthly price", Step: "any", Unit: "$"},
		{Name: constants.QueryE2V, Label: "Exposure to visit", Step: "0.1", Unit: "%"},
		{Name: constants.QueryV2T, Label: "Visit to trial", Step: "0.1", Unit: "%"},
		{Name: constants.QueryT2P, Label: "Trial to paid", Step: "0.1", Unit: "%"},
	}
	for i := range fields {
		fields[i].Value = values.Get(fields[i].Name)
	}

	c.HTML(http.StatusOK, "planner", gin.H{
		"Title":     "ARR Planner",
		"Action":    constants.PlannerPath,
		"Scenario":  arrplanner.Lookup(state.Scenario),
		"Scenarios": scenarioLinks(state),
		"Fields":    fields,
		"Effective": result.Effective,
		"Stages":    arrplanner.Stages(result.Outputs),
		"Summary":   result.Summary,
		"ShareURL":  state.URL(constants.PlannerPath),
		"Infinite":  !mathutil.IsFinite(result.Outputs.VisitsPerMonth),
	})
}
