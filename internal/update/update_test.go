package update

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/spf13/afero"

	"github.com/avelin/threadkeeper/internal/downloader"
	"github.com/avelin/threadkeeper/internal/parserkind"
	"github.com/avelin/threadkeeper/internal/project"
	"github.com/avelin/threadkeeper/internal/uievents"
)

func TestTickSuccessMergesSnapshotAndDownloadsAssets(t *testing.T) {
	var threadBody string

	mux := http.NewServeMux()
	mux.HandleFunc("/t/1", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(threadBody))
	})
	mux.HandleFunc("/a.png", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("asset-bytes"))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	threadBody = `<div class="thread" id="t1"><div class="postContainer" id="pc1"><a href="` + srv.URL + `/a.png">x</a></div></div>`

	fs := afero.NewMemMapFs()
	p, err := project.Create(fs, "/proj", srv.URL+"/t/1", parserkind.FourChan, []string{"png"})
	if err != nil {
		t.Fatalf("project.Create: %v", err)
	}
	defer p.Release()

	d := downloader.New(srv.Client(), fs, nil, nil)

	result, err := Tick(context.Background(), d, p, uievents.NullHandler{})
	if err != nil {
		t.Fatalf("Tick: %v", err)
	}
	if !result.WasUpdated || result.NewPostCount != 1 || result.NewFileCount != 1 {
		t.Fatalf("unexpected result: %+v", result)
	}

	if exists, _ := afero.Exists(fs, "/proj/thread.html"); !exists {
		t.Fatalf("expected thread.html to be written")
	}
	if len(p.State.NewLinks) != 0 {
		t.Fatalf("expected the one link to have been drained, got %+v", p.State.NewLinks)
	}
}

func TestTickNotModifiedLeavesStateUntouched(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/t/1", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotModified)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	fs := afero.NewMemMapFs()
	p, err := project.Create(fs, "/proj", srv.URL+"/t/1", parserkind.FourChan, []string{"png"})
	if err != nil {
		t.Fatalf("project.Create: %v", err)
	}
	defer p.Release()

	d := downloader.New(srv.Client(), fs, nil, nil)

	result, err := Tick(context.Background(), d, p, uievents.NullHandler{})
	if err != nil {
		t.Fatalf("Tick: %v", err)
	}
	if result.WasUpdated {
		t.Fatalf("expected WasUpdated=false")
	}
	if exists, _ := afero.Exists(fs, "/proj/thread.html"); exists {
		t.Fatalf("expected no thread.html to be written on a 304")
	}
}

func TestTickNotFoundMarksDead(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/t/1", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	fs := afero.NewMemMapFs()
	p, err := project.Create(fs, "/proj", srv.URL+"/t/1", parserkind.FourChan, []string{"png"})
	if err != nil {
		t.Fatalf("project.Create: %v", err)
	}
	defer p.Release()

	d := downloader.New(srv.Client(), fs, nil, nil)

	result, err := Tick(context.Background(), d, p, uievents.NullHandler{})
	if err != nil {
		t.Fatalf("Tick: %v", err)
	}
	if !result.IsDead || !p.State.IsDead {
		t.Fatalf("expected project to be marked dead")
	}
}

func TestTickOtherHTTPErrorReturnsDownloadError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/t/1", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	fs := afero.NewMemMapFs()
	p, err := project.Create(fs, "/proj", srv.URL+"/t/1", parserkind.FourChan, []string{"png"})
	if err != nil {
		t.Fatalf("project.Create: %v", err)
	}
	defer p.Release()

	d := downloader.New(srv.Client(), fs, nil, nil)

	_, err = Tick(context.Background(), d, p, uievents.NullHandler{})
	if err == nil {
		t.Fatalf("expected an error")
	}
	var de *DownloadError
	if !asDownloadError(err, &de) {
		t.Fatalf("expected a *DownloadError, got %T: %v", err, err)
	}
}

func asDownloadError(err error, target **DownloadError) bool {
	de, ok := err.(*DownloadError)
	if !ok {
		return false
	}
	*target = de
	return true
}
