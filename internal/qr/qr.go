// Package qr рендерит QR-коды со ссылкой на публичный просмотрщик меню.
// Картинка детерминирована по содержимому, поэтому кешируется в Redis;
// статус подписки владельца при этом не кешируется — его проверяет
// обработчик просмотра при каждом запросе.
package qr

import (
	"context"
	"fmt"
	"time"

	qrcode "github.com/skip2/go-qrcode"
)

// Cache описывает методы кеширования готовых картинок.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Invalidate(ctx context.Context, key string) error
}

// Размеры стороны PNG: экранная версия без тихой зоны и версия для печати.
const (
	ViewSize     = 512
	DownloadSize = 1024
)

// renderVariants — все варианты картинки, которые попадают в кеш.
var renderVariants = []struct {
	size   int
	border bool
}{
	{ViewSize, false},
	{DownloadSize, true},
}

// Generator рендерит QR-коды для загрузок меню.
type Generator struct {
	viewBaseURL string
	cache       Cache
}

// New создаёт Generator. viewBaseURL — адрес публичного просмотрщика,
// к которому добавляется id загрузки.
func New(viewBaseURL string, cache Cache) *Generator {
	return &Generator{
		viewBaseURL: viewBaseURL,
		cache:       cache,
	}
}

// ViewURL возвращает публичную ссылку просмотра загрузки,
// которая кодируется в QR.
func (g *Generator) ViewURL(uploadID string) string {
	return fmt.Sprintf("%s?id=%s", g.viewBaseURL, uploadID)
}

// Render возвращает PNG с QR-кодом заданного размера. border управляет
// тихой зоной вокруг кода: экранная версия рисуется без неё, версия
// для печати — с ней.
func (g *Generator) Render(ctx context.Context, uploadID string, size int, border bool) ([]byte, error) {
	const op = "qr.Render"

	cacheKey := fmt.Sprintf("qr:%s:%d:%t", uploadID, size, border)
	var png []byte
	if g.cache != nil {
		if found, err := g.cache.Get(ctx, cacheKey, &png); err == nil && found {
			return png, nil
		}
	}

	code, err := qrcode.New(g.ViewURL(uploadID), qrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	code.DisableBorder = !border

	png, err = code.PNG(size)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if g.cache != nil {
		// Ошибка кеша не мешает отдать картинку.
		_ = g.cache.Set(ctx, cacheKey, png, 24*time.Hour)
	}
	return png, nil
}

// Invalidate удаляет закешированные картинки QR-кода загрузки.
// Вызывается при удалении загрузки, чтобы кеш не отдавал QR
// несуществующего меню до истечения срока хранения.
func (g *Generator) Invalidate(ctx context.Context, uploadID string) error {
	const op = "qr.Invalidate"

	if g.cache == nil {
		return nil
	}
	for _, v := range renderVariants {
		key := fmt.Sprintf("qr:%s:%d:%t", uploadID, v.size, v.border)
		if err := g.cache.Invalidate(ctx, key); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}
	return nil
}
