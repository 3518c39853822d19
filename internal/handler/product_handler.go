package handler

import (
	"net/http"
	"strconv"

	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	if he, ok := usecase.AsHTTPError(err); ok {
		return c.JSON(he.Status, ErrorResponse{Error: he.Message})
	}

	//500
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}

// 一覧のパス（フィルタ適用後のリダイレクト先）
const productsPath = "/products"

// /products の公開API
type ProductHandler struct {
	uc *usecase.ProductUsecase
}

// DI
func NewProductHandler(uc *usecase.ProductUsecase) *ProductHandler {
	return &ProductHandler{uc: uc}
}

// 公開商品のルートを登録
func (h *ProductHandler) RegisterRoutes(e *echo.Echo) {
	e.GET(productsPath, h.list)
	e.POST(productsPath+"/filters", h.applyFilters)
	e.GET(productsPath+"/:id", h.detail)
	e.GET("/categories", h.categories)
}

// クエリが不正でも400にはしない（既定値で表示する）
func (h *ProductHandler) list(c echo.Context) error {
	out, err := h.uc.ListProducts(c.Request().Context(), usecase.ListProductsInput{
		Path:   productsPath,
		Params: c.QueryParams(),
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

// フィルタパネルの「適用」。現在のクエリはPOST先URLのクエリで受け取る。
func (h *ProductHandler) applyFilters(c echo.Context) error {
	if _, err := c.FormParams(); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	// FormParamsはURLのクエリも混ざるので本文だけ使う
	form := c.Request().PostForm

	clearAll, _ := strconv.ParseBool(form.Get("clear"))

	location, err := h.uc.ApplyFilters(c.Request().Context(), usecase.ApplyFiltersInput{
		Path:   productsPath,
		Params: c.QueryParams(),
		Form: usecase.FilterFormInput{
			Categories: form["category"],
			MinPrice:   form.Get("min_price"),
			MaxPrice:   form.Get("max_price"),
			Clear:      clearAll,
		},
	})
	if err != nil {
		return writeError(c, err)
	}

	//まとめて1回だけ遷移させる
	return c.Redirect(http.StatusSeeOther, location)
}

func (h *ProductHandler) detail(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	p, err := h.uc.GetProductDetail(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, p)
}

func (h *ProductHandler) categories(c echo.Context) error {
	out, err := h.uc.ListCategories(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}
