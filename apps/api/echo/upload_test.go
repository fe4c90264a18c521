package echoapi

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/frostwarlord/portal/core/upload"
)

func Test_uploadApi(t *testing.T) {
	env := setup(t)
	usr := env.createUser(t, "Kai", "kai@test.cd", "Str0ng!Pass", true, false)
	token := env.getToken(t, usr)

	req, rec := newRequest(http.MethodGet, "/v1/uploads")
	env.app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: []byte("[]")}, rec)

	req, rec = newRequest(http.MethodPost, "/v1/uploads", []byte(`{}`))
	env.app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)}, rec)

	nu := upload.NewUpload{
		Title:      "Finals VOD",
		FileURL:    "https://cdn.test.cd/vods/finals.mp4",
		UploadType: "Video", // normalized to lowercase
		SizeBytes:  1 << 20,
	}
	req, rec = newAuthRequest(http.MethodPost, "/v1/uploads", token, marchallObj(t, &nu))
	env.app.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create code = %v; body %s", rec.Code, rec.Body.String())
	}
	var up upload.Upload
	if err := json.Unmarshal(rec.Body.Bytes(), &up); err != nil {
		t.Fatalf("unmarshaling upload: %v", err)
	}
	if up.UploadedBy != usr.ID || up.UploadType != "video" {
		t.Errorf("unexpected upload: %+v", up)
	}

	// file_url must be a URL
	req, rec = newAuthRequest(http.MethodPost, "/v1/uploads", token,
		[]byte(`{"title":"Bad","file_url":"not-a-url","upload_type":"video","size_bytes":1}`))
	env.app.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("create with bad file_url code = %v, want 400", rec.Code)
	}

	req, rec = newRequest(http.MethodGet, "/v1/uploads")
	env.app.ServeHTTP(rec, req)
	var uploads []upload.Upload
	if err := json.Unmarshal(rec.Body.Bytes(), &uploads); err != nil {
		t.Fatalf("unmarshaling uploads: %v", err)
	}
	if len(uploads) != 1 {
		t.Errorf("len(uploads) = %v, want 1", len(uploads))
	}
}
