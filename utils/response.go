package utils

import "github.com/gin-gonic/gin"

func JSONSuccess(c *gin.Context, code int, message string, data interface{}) {
	body := gin.H{"success": true, "message": message}
	if data != nil {
		body["data"] = data
	}
	c.JSON(code, body)
}

// JSONList writes a list payload together with its length.
func JSONList(c *gin.Context, code int, message string, data interface{}, count int) {
	c.JSON(code, gin.H{"success": true, "message": message, "data": data, "count": count})
}

func JSONError(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"success": false, "message": message})
}

func AbortJSONError(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, gin.H{"success": false, "message": message})
}
